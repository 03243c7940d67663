package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestExportImport_RoundTrip(t *testing.T) {
	db := reorderFixture()

	b, err := ExportJSON(db)
	require.NoError(t, err)

	got, err := ImportJSON(b)
	require.NoError(t, err)

	if diff := cmp.Diff(db, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestImportJSON_LegacyOrderNormalized(t *testing.T) {
	doc := []byte(`{
		"apps": [
			{"id":"x","name":"X","url":"https://x.example","icon":"Globe","categoryId":"cat1","order":5}
		],
		"categories": [
			{"id":"cat1","name":"Cat","icon":"Code","order":0}
		]
	}`)

	got, err := ImportJSON(doc)
	require.NoError(t, err)
	require.Len(t, got.Apps, 1)

	a := got.Apps[0]
	require.Equal(t, 5, a.GlobalOrder)
	require.Equal(t, map[string]int{"cat1": 5}, a.CategoryOrder)
	require.Nil(t, a.LegacyOrder, "legacy order field must be dropped")

	// Re-export must not resurrect the legacy field.
	out, err := ExportJSON(got)
	require.NoError(t, err)
	require.NotContains(t, string(out), `"order": 5`)
}

func TestImportJSON_ParseErrorKind(t *testing.T) {
	_, err := ImportJSON([]byte(`{not json`))
	require.ErrorIs(t, err, ErrImportParse)
}

func TestImportJSON_ValidationErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
	}{
		{"apps not array", `{"apps":{},"categories":[]}`},
		{"missing apps", `{"categories":[]}`},
		{"categories not array", `{"apps":[],"categories":"x"}`},
		{"app missing url", `{"apps":[{"id":"a","name":"A","icon":"i","categoryId":"all","globalOrder":0,"categoryOrder":{"all":0}}],"categories":[]}`},
		{"app missing order fields", `{"apps":[{"id":"a","name":"A","url":"u","icon":"i","categoryId":"all"}],"categories":[]}`},
		{"app with only globalOrder", `{"apps":[{"id":"a","name":"A","url":"u","icon":"i","categoryId":"all","globalOrder":0}],"categories":[]}`},
		{"category missing icon", `{"apps":[],"categories":[{"id":"c","name":"C","order":0}]}`},
		{"app element not object", `{"apps":[42],"categories":[]}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ImportJSON([]byte(tc.doc))
			require.ErrorIs(t, err, ErrImportInvalid)
		})
	}
}

func TestImportReplace_WholesaleReplaceAndReject(t *testing.T) {
	s, db := twoCategoryFixture(t)
	ctx := context.Background()

	// A bad document must leave both tables untouched.
	err := s.ImportReplace(ctx, db, []byte(`{"apps":[{"id":"bad"}],"categories":[]}`))
	if !errors.Is(err, ErrImportInvalid) {
		t.Fatalf("err = %v, want ErrImportInvalid", err)
	}
	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got.Apps, 2)
	require.Len(t, got.Categories, 2)

	// A good document replaces everything.
	doc := []byte(`{
		"apps": [{"id":"n1","name":"N","url":"https://n.example","icon":"Star","categoryId":"nc","globalOrder":0,"categoryOrder":{"nc":0}}],
		"categories": [{"id":"nc","name":"New","icon":"Star","order":0}]
	}`)
	require.NoError(t, s.ImportReplace(ctx, db, doc))

	got, err = s.Load()
	require.NoError(t, err)
	require.Len(t, got.Apps, 1)
	require.Len(t, got.Categories, 1)
	require.Equal(t, "n1", got.Apps[0].ID)
}
