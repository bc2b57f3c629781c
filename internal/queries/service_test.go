package queries_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/wilhelser/ubiquo/internal/queries"
	"github.com/wilhelser/ubiquo/internal/translations"
	"github.com/wilhelser/ubiquo/pkg/testsupport"
)

var codes = []string{"g1", "g2", "g3"}

func newService(t *testing.T) (*queries.Service, []*translations.Record) {
	t.Helper()
	store := translations.NewMemoryRecordStore()
	seeded := testsupport.MustSeed(t, store,
		testsupport.Variant{Group: "g1", Locale: "es", Key: "inicio"},
		testsupport.Variant{Group: "g1", Locale: "ca", Key: "inici"},
		testsupport.Variant{Group: "g1", Locale: "de"},
		testsupport.Variant{Group: "g2", Locale: "es"},
		testsupport.Variant{Group: "g2", Locale: "en"},
		testsupport.Variant{Group: "g3", Locale: "en"},
	)
	return queries.NewService(translations.NewResolver(store)), seeded
}

func TestServiceByLocale(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	got, err := svc.ByLocale.Query(ctx, queries.RecordsByLocale{Locales: []string{"en", "ALL"}})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if diff := cmp.Diff([]string{"g2/en", "g2/es", "g3/en"}, testsupport.Labels(got, codes...)); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}

	got, err = svc.ByLocale.Query(ctx, queries.RecordsByLocale{
		Locales: []string{"es"},
		Groups:  []uuid.UUID{testsupport.GroupID("g2")},
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if diff := cmp.Diff([]string{"g2/es"}, testsupport.Labels(got, codes...)); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}

	got, err = svc.ByLocale.Query(ctx, queries.RecordsByLocale{Locales: []string{"ca", "en", "*"}, Preferred: true})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if diff := cmp.Diff([]string{"g1/ca", "g2/en", "g3/en"}, testsupport.Labels(got, codes...)); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestServiceRejectsMalformedTags(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.ByLocale.Query(context.Background(), queries.RecordsByLocale{Locales: []string{"??"}})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestServiceByContentAndTranslations(t *testing.T) {
	svc, seeded := newService(t)
	ctx := context.Background()

	got, err := svc.ByContent.Query(ctx, queries.RecordsByContent{Groups: []uuid.UUID{testsupport.GroupID("g2"), testsupport.GroupID("g3")}})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if diff := cmp.Diff([]string{"g2/es", "g2/en", "g3/en"}, testsupport.Labels(got, codes...)); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}

	got, err = svc.TranslationsOf.Query(ctx, queries.TranslationsOf{RecordID: seeded[1].ID})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if diff := cmp.Diff([]string{"g1/es", "g1/de"}, testsupport.Labels(got, codes...)); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}

	got, err = svc.TranslationsOf.Query(ctx, queries.TranslationsOf{Key: "inicio"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if diff := cmp.Diff([]string{"g1/ca", "g1/de"}, testsupport.Labels(got, codes...)); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}

	_, err = svc.TranslationsOf.Query(ctx, queries.TranslationsOf{Key: "missing"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for missing record, got %v", err)
	}
}

func TestServiceAvailableLocales(t *testing.T) {
	svc, _ := newService(t)
	got, err := svc.AvailableLocales.Query(context.Background(), queries.AvailableLocales{GroupID: testsupport.GroupID("g2")})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if diff := cmp.Diff([]string{"es", "en"}, got); diff != "" {
		t.Fatalf("unexpected locales (-want +got):\n%s", diff)
	}
}
