package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/models"
)

func TestParseRole(t *testing.T) {
	testCases := []struct {
		in      string
		want    models.Role
		wantErr bool
	}{
		{in: "ADMIN", want: models.RoleAdmin},
		{in: " viewer ", want: models.RoleViewer},
		{in: "Admin", want: models.RoleAdmin},
		{in: "owner", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseRole(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{
		"ensure-indexes", "ensure-bucket", "ensure-topics",
		"set-role", "import-feed", "rewrite-media-urls",
	} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRequiredFlags(t *testing.T) {
	testCases := []struct {
		name  string
		flags []string
	}{
		{name: "set-role", flags: []string{"email", "role"}},
		{name: "import-feed", flags: []string{"url", "author-email"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tc.name})
			require.NoError(t, err)
			for _, name := range tc.flags {
				f := cmd.Flags().Lookup(name)
				require.NotNil(t, f, name)
				assert.Equal(t, []string{"true"}, f.Annotations["cobra_annotation_bash_completion_one_required_flag"], name)
			}
		})
	}
}

func TestRewriteDefaults(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"rewrite-media-urls"})
	require.NoError(t, err)
	dry := cmd.Flags().Lookup("dry-run")
	require.NotNil(t, dry)
	assert.Equal(t, "false", dry.DefValue)

	limit := importFeedCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "10", limit.DefValue)
}
