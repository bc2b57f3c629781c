package translations

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewRecordRepository builds the generic go-repository-bun repository for records.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(r *Record) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Record, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(r *Record) string {
			if r == nil {
				return ""
			}
			return r.Key
		},
	})
}

// BunRecordStore implements RecordRepository on top of Bun. Single-record
// lookups and writes go through go-repository-bun (optionally cached); set
// scans are issued directly so they always observe the database order.
type BunRecordStore struct {
	db   *bun.DB
	repo repository.Repository[*Record]
	now  func() time.Time
}

var _ RecordRepository = (*BunRecordStore)(nil)

// NewBunRecordStore creates a store without caching.
func NewBunRecordStore(db *bun.DB) *BunRecordStore {
	return NewBunRecordStoreWithCache(db, nil, nil)
}

// NewBunRecordStoreWithCache creates a store whose id/key lookups are cached.
func NewBunRecordStoreWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRecordStore {
	base := NewRecordRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRecordStore{db: db, repo: base, now: time.Now}
}

// CreateSchema creates the records table with its lookup and uniqueness
// indexes when missing. The indexes mirror the bundled migrations.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().Model((*Record)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("translations: create table: %w", err)
	}
	indexes := []struct {
		name    string
		columns []string
		unique  bool
		where   string
	}{
		{name: "localized_records_group_idx", columns: []string{"content_group_id"}},
		{name: "localized_records_locale_idx", columns: []string{"locale"}},
		{name: "localized_records_position_idx", columns: []string{"position"}},
		{
			name:    "localized_records_group_locale_uidx",
			columns: []string{"content_group_id", "locale"},
			unique:  true,
			where:   "content_group_id IS NOT NULL",
		},
		{
			name:    "localized_records_key_uidx",
			columns: []string{"key"},
			unique:  true,
			where:   "key <> ''",
		},
	}
	for _, idx := range indexes {
		q := db.NewCreateIndex().
			Model((*Record)(nil)).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists()
		if idx.unique {
			q = q.Unique()
		}
		if idx.where != "" {
			q = q.Where(idx.where)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("translations: create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// Create inserts a record at the end of the natural order. The uniqueness
// checks, position read and insert share one transaction; concurrent writers
// that still tie on position are ordered by id.
func (s *BunRecordStore) Create(ctx context.Context, record *Record) (*Record, error) {
	if record == nil {
		return nil, ErrRecordRequired
	}
	copied, err := prepareRecord(record)
	if err != nil {
		return nil, err
	}

	var created *Record
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.checkUnique(ctx, tx, copied); err != nil {
			return err
		}
		if copied.ID == uuid.Nil {
			id, err := newRecordID(copied, func(id uuid.UUID) (bool, error) {
				return s.idTaken(ctx, tx, id)
			})
			if err != nil {
				return err
			}
			copied.ID = id
		} else {
			taken, err := s.idTaken(ctx, tx, copied.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateID
			}
		}

		var last int64
		if err := tx.NewSelect().
			Model((*Record)(nil)).
			ColumnExpr("COALESCE(MAX(?TableAlias.position), 0)").
			Scan(ctx, &last); err != nil {
			return storeError("create", err)
		}

		now := s.now().UTC()
		copied.Position = last + 1
		copied.CreatedAt = now
		copied.UpdatedAt = now

		created, err = s.repo.CreateTx(ctx, tx, copied)
		if err != nil {
			return storeError("create", err)
		}
		return nil
	})
	if err != nil {
		return nil, writeError("create", err)
	}
	return created, nil
}

// Update persists the mutable columns of an existing record.
func (s *BunRecordStore) Update(ctx context.Context, record *Record) (*Record, error) {
	if record == nil {
		return nil, ErrRecordRequired
	}
	existing, err := s.GetByID(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	copied, err := prepareRecord(record)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, s.db, copied); err != nil {
		return nil, err
	}

	copied.Position = existing.Position
	copied.CreatedAt = existing.CreatedAt
	copied.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, copied,
		repository.UpdateByID(copied.ID.String()),
		repository.UpdateColumns(
			"content_group_id",
			"locale",
			"key",
			"fields",
			"updated_at",
		),
	)
	if err != nil {
		return nil, storeError("update", err)
	}
	return updated, nil
}

// Delete removes a record by id.
func (s *BunRecordStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, &Record{ID: id}); err != nil {
		return storeError("delete", err)
	}
	return nil
}

func (s *BunRecordStore) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	record, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "record", id.String())
	}
	return record, nil
}

func (s *BunRecordStore) GetByKey(ctx context.Context, key string) (*Record, error) {
	normalized, err := normalizeKey(key)
	if err != nil {
		return nil, &NotFoundError{Resource: "record", Key: key}
	}
	record, err := s.repo.GetByIdentifier(ctx, normalized)
	if err != nil {
		return nil, mapRepositoryError(err, "record", key)
	}
	return record, nil
}

func (s *BunRecordStore) FindByLocaleSet(ctx context.Context, locales []string) ([]*Record, error) {
	if len(locales) == 0 {
		return []*Record{}, nil
	}
	return s.FindWhere(ctx, Criteria{Locales: locales})
}

func (s *BunRecordStore) FindByContentSet(ctx context.Context, groups []uuid.UUID) ([]*Record, error) {
	if len(groups) == 0 {
		return []*Record{}, nil
	}
	return s.FindWhere(ctx, Criteria{Groups: groups})
}

func (s *BunRecordStore) FindWhere(ctx context.Context, criteria Criteria) ([]*Record, error) {
	records := make([]*Record, 0)
	q := s.db.NewSelect().Model(&records)
	if len(criteria.Locales) > 0 {
		q = q.Where("?TableAlias.locale IN (?)", bun.In(criteria.Locales))
	}
	if len(criteria.Groups) > 0 {
		q = q.Where("?TableAlias.content_group_id IN (?)", bun.In(criteria.Groups))
	}
	if err := q.OrderExpr("?TableAlias.position ASC, ?TableAlias.id ASC").Scan(ctx); err != nil {
		return nil, storeError("find", err)
	}
	return records, nil
}

func (s *BunRecordStore) checkUnique(ctx context.Context, db bun.IDB, candidate *Record) error {
	if candidate.Key != "" {
		exists, err := db.NewSelect().
			Model((*Record)(nil)).
			Where("?TableAlias.key = ?", candidate.Key).
			Where("?TableAlias.id != ?", candidate.ID).
			Exists(ctx)
		if err != nil {
			return storeError("check_unique", err)
		}
		if exists {
			return ErrDuplicateKey
		}
	}
	if !candidate.Linked() {
		return nil
	}
	exists, err := db.NewSelect().
		Model((*Record)(nil)).
		Where("?TableAlias.content_group_id = ?", candidate.GroupID).
		Where("?TableAlias.locale = ?", candidate.Locale).
		Where("?TableAlias.id != ?", candidate.ID).
		Exists(ctx)
	if err != nil {
		return storeError("check_unique", err)
	}
	if exists {
		return ErrDuplicateLocale
	}
	return nil
}

func (s *BunRecordStore) idTaken(ctx context.Context, db bun.IDB, id uuid.UUID) (bool, error) {
	exists, err := db.NewSelect().
		Model((*Record)(nil)).
		Where("?TableAlias.id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, storeError("check_id", err)
	}
	return exists, nil
}

// writeError keeps validation sentinels and store errors as they are and
// wraps transaction begin/commit failures.
func writeError(op string, err error) error {
	switch {
	case errors.Is(err, ErrDuplicateLocale),
		errors.Is(err, ErrDuplicateKey),
		errors.Is(err, ErrDuplicateID):
		return err
	default:
		return storeError(op, err)
	}
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return storeError(resource+" lookup", err)
}
