package di_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/wilhelser/ubiquo/internal/di"
	"github.com/wilhelser/ubiquo/internal/queries"
	"github.com/wilhelser/ubiquo/internal/runtimeconfig"
	"github.com/wilhelser/ubiquo/internal/translations"
	"github.com/wilhelser/ubiquo/pkg/interfaces"
	"github.com/wilhelser/ubiquo/pkg/testsupport"
)

func TestContainerDefaultsToMemoryStore(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.RecordStore().(*translations.MemoryRecordStore); !ok {
		t.Fatalf("expected memory store, got %T", container.RecordStore())
	}
	if container.BunDB() != nil {
		t.Fatal("expected no database for the memory provider")
	}
	if container.Resolver() == nil || container.Queries() == nil {
		t.Fatal("expected resolver and queries to be wired")
	}
	if err := container.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "redis"
	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestContainerOpensSQLiteWithCache(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageBun
	cfg.Storage.Driver = runtimeconfig.DriverSQLite
	cfg.Storage.DSN = fmt.Sprintf("file:di_container_%d?mode=memory&cache=shared&_fk=1", time.Now().UnixNano())
	cfg.Cache.Enabled = true

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.BunDB() == nil {
		t.Fatal("expected database to be opened")
	}
	if _, ok := container.RecordStore().(*translations.BunRecordStore); !ok {
		t.Fatalf("expected bun store, got %T", container.RecordStore())
	}

	seeded := testsupport.MustSeed(t, container.RecordStore(), testsupport.ScenarioVariants()...)
	got, err := container.Queries().TranslationsOf.Query(context.Background(), queries.TranslationsOf{RecordID: seeded[1].ID})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if diff := cmp.Diff([]string{"g1/es", "g1/de"}, testsupport.Labels(got, "g1")); diff != "" {
		t.Fatalf("unexpected translations (-want +got):\n%s", diff)
	}
}

func TestContainerUsesSuppliedDatabase(t *testing.T) {
	db := testsupport.NewBunDB(t, nil)

	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithBunDB(db))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.RecordStore().(*translations.BunRecordStore); !ok {
		t.Fatalf("expected bun store over the supplied db, got %T", container.RecordStore())
	}
	if err := container.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("expected supplied db to stay open: %v", err)
	}
}

func TestContainerCanonicalizesTagsWhenConfigured(t *testing.T) {
	store := translations.NewMemoryRecordStore()
	testsupport.MustSeed(t, store, testsupport.Variant{Group: "g1", Locale: "pt-BR"})

	cfg := runtimeconfig.DefaultConfig()
	cfg.I18N.CanonicalizeTags = true
	container, err := di.NewContainer(cfg, di.WithRecordStore(store))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	got, err := container.Resolver().ByLocale(context.Background(), translations.LocaleTags("PT-br"))
	if err != nil {
		t.Fatalf("ByLocale: %v", err)
	}
	if len(got) != 1 || got[0].Locale != "pt-BR" {
		t.Fatalf("expected canonical match, got %v", testsupport.Labels(got, "g1"))
	}
}

func TestContainerLogsThroughProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true

	rec := newRecordingProvider()
	container, err := di.NewContainer(cfg, di.WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	testsupport.MustSeed(t, container.RecordStore(), testsupport.ScenarioVariants()...)

	if _, err := container.Queries().ByLocale.Query(context.Background(), queries.RecordsByLocale{Locales: []string{"es"}}); err != nil {
		t.Fatalf("query: %v", err)
	}

	entry := rec.find("translations.by_locale")
	if entry == nil {
		t.Fatalf("expected translations.by_locale entry, got %#v", rec.entries)
	}
	if entry.fields["module"] != "ubiquo.translations" || entry.fields["count"] != 2 || entry.fields["locales"] != "es" {
		t.Fatalf("unexpected resolver fields %v", entry.fields)
	}

	start := rec.find("query.start")
	if start == nil || start.fields["module"] != "ubiquo.queries" || start.fields["query"] != queries.RecordsByLocaleType || start.fields["operation"] != "by_locale" {
		t.Fatalf("expected query.start entry from the queries module, got %#v", start)
	}
}

func TestContainerBuildsConfiguredProviders(t *testing.T) {
	for _, provider := range []string{runtimeconfig.LoggingConsole, runtimeconfig.LoggingGoLogger, runtimeconfig.LoggingZap} {
		t.Run(provider, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			cfg.Features.Logger = true
			cfg.Logging.Provider = provider
			cfg.Logging.Level = "error"

			container, err := di.NewContainer(cfg)
			if err != nil {
				t.Fatalf("NewContainer returned error: %v", err)
			}
			if container.LoggerProvider() == nil {
				t.Fatal("expected logger provider")
			}
		})
	}
}

type recordingProvider struct {
	mu      sync.Mutex
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{}
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{provider: p, fields: map[string]any{"logger": name}}
}

func (p *recordingProvider) record(entry recordedEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

var (
	_ interfaces.Logger       = (*recordingLogger)(nil)
	_ interfaces.FieldsLogger = (*recordingLogger)(nil)
)

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("TRACE", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("FATAL", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := cloneFields(l.fields)
	for key, value := range fields {
		merged[key] = value
	}
	return &recordingLogger{provider: l.provider, fields: merged}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return &recordingLogger{provider: l.provider, fields: cloneFields(l.fields)}
}

func (l *recordingLogger) log(level, msg string, args ...any) {
	fields := cloneFields(l.fields)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok && key != "" {
			fields[key] = args[i+1]
		}
	}
	l.provider.record(recordedEntry{level: level, msg: msg, fields: fields})
}

func cloneFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}
