package phrasekit_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrasekit/phrasekit"
)

func TestDirLoader(t *testing.T) {
	t.Parallel()

	t.Run("loads YAML sources", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"en/validation.yaml": {Data: []byte("required: This field is required.\nemail:\n  invalid: Invalid email\n")},
		}

		trees, err := phrasekit.NewDirLoader(fsys).Load("en", "validation")
		require.NoError(t, err)
		require.Len(t, trees, 1)
		assert.Equal(t, "This field is required.", trees[0]["required"])
		assert.Equal(t, phrasekit.Tree{"invalid": "Invalid email"}, trees[0]["email"])
	})

	t.Run("loads JSON sources with lists", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"en/onboarding.json": {Data: []byte(`{"steps": ["Sign up", "Done"], "retries": 3}`)},
		}

		trees, err := phrasekit.NewDirLoader(fsys).Load("en", "onboarding")
		require.NoError(t, err)
		require.Len(t, trees, 1)
		assert.Equal(t, []string{"Sign up", "Done"}, trees[0]["steps"])
		assert.Equal(t, "3", trees[0]["retries"])
	})

	t.Run("loads TOML sources", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"de/app.toml": {Data: []byte("title = \"Anwendung\"\n\n[menu]\nfile = \"Datei\"\n")},
		}

		trees, err := phrasekit.NewDirLoader(fsys).Load("de", "app")
		require.NoError(t, err)
		require.Len(t, trees, 1)
		assert.Equal(t, "Anwendung", trees[0]["title"])
		assert.Equal(t, phrasekit.Tree{"file": "Datei"}, trees[0]["menu"])
	})

	t.Run("returns nothing when no file matches", func(t *testing.T) {
		t.Parallel()
		trees, err := phrasekit.NewDirLoader(fstest.MapFS{}).Load("en", "ghost")
		require.NoError(t, err)
		assert.Empty(t, trees)
	})

	t.Run("discovers across roots in order", func(t *testing.T) {
		t.Parallel()
		defaults := fstest.MapFS{
			"en/app.json": {Data: []byte(`{"x": "1", "y": "2"}`)},
		}
		overrides := fstest.MapFS{
			"en/app.yaml": {Data: []byte("x: override\n")},
		}

		trees, err := phrasekit.NewDirLoader(defaults, overrides).Load("en", "app")
		require.NoError(t, err)
		require.Len(t, trees, 2)
		assert.Equal(t, "1", trees[0]["x"])
		assert.Equal(t, "override", trees[1]["x"])
	})

	t.Run("discovers several formats within one root", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"en/app.json": {Data: []byte(`{"a": "json"}`)},
			"en/app.yaml": {Data: []byte("b: yaml\n")},
		}

		trees, err := phrasekit.NewDirLoader(fsys).Load("en", "app")
		require.NoError(t, err)
		require.Len(t, trees, 2)
		assert.Equal(t, "json", trees[0]["a"])
		assert.Equal(t, "yaml", trees[1]["b"])
	})

	t.Run("reports unparseable files", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"en/app.json": {Data: []byte(`{"x": `)},
		}

		_, err := phrasekit.NewDirLoader(fsys).Load("en", "app")
		require.Error(t, err)
		require.ErrorIs(t, err, phrasekit.ErrMalformedSource)
	})

	t.Run("rejects null values", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"en/app.json": {Data: []byte(`{"x": null}`)},
		}

		_, err := phrasekit.NewDirLoader(fsys).Load("en", "app")
		require.Error(t, err)
		require.ErrorIs(t, err, phrasekit.ErrMalformedSource)
	})

	t.Run("rejects lists of mappings", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"en/app.yaml": {Data: []byte("items:\n  - name: one\n")},
		}

		_, err := phrasekit.NewDirLoader(fsys).Load("en", "app")
		require.Error(t, err)
		require.ErrorIs(t, err, phrasekit.ErrMalformedSource)
	})

	t.Run("coerces scalar leaves to strings", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"en/app.yaml": {Data: []byte("max: 10\nenabled: true\nsteps:\n  - 1\n  - 2\n")},
		}

		trees, err := phrasekit.NewDirLoader(fsys).Load("en", "app")
		require.NoError(t, err)
		require.Len(t, trees, 1)
		assert.Equal(t, "10", trees[0]["max"])
		assert.Equal(t, "true", trees[0]["enabled"])
		assert.Equal(t, []string{"1", "2"}, trees[0]["steps"])
	})
}

func TestDirLoaderWithResolver(t *testing.T) {
	t.Parallel()

	t.Run("end to end with layered roots and fallback", func(t *testing.T) {
		t.Parallel()
		defaults := fstest.MapFS{
			"en/validation.yaml": {Data: []byte("required: This field is required.\nemail: Invalid email\n")},
		}
		overrides := fstest.MapFS{
			"en/validation.yaml":    {Data: []byte("email: Please enter a valid email\n")},
			"fr-FR/validation.yaml": {Data: []byte("required: Ce champ est obligatoire.\n")},
		}

		r, err := phrasekit.New(
			phrasekit.NewDirLoader(defaults, overrides),
			phrasekit.WithLocale("fr-FR"),
		)
		require.NoError(t, err)

		v, err := r.Lookup("validation.required")
		require.NoError(t, err)
		assert.Equal(t, "Ce champ est obligatoire.", v.String())

		v, err = r.Lookup("validation.email")
		require.NoError(t, err)
		assert.Equal(t, "Please enter a valid email", v.String())
	})
}
