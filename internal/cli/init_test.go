// SPDX-FileCopyrightText: 2026 graphdoc
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphdoc/graphdoc/internal/config"
)

// resetInitFlags restores the init command's flag state after a test.
func resetInitFlags(t *testing.T) {
	t.Helper()

	oldForce, oldTitle, oldDescription := initForce, initTitle, initDescription
	oldListen, oldPrefix := initListen, initPrefix
	t.Cleanup(func() {
		initForce, initTitle, initDescription = oldForce, oldTitle, oldDescription
		initListen, initPrefix = oldListen, oldPrefix
	})
}

func TestDetectProjectInfo(t *testing.T) {
	tests := []struct {
		name         string
		goModContent string
		wantTitle    string
		wantModule   string
	}{
		{
			name: "simple module",
			goModContent: `module github.com/user/myapp

go 1.21
`,
			wantTitle:  "Myapp API",
			wantModule: "github.com/user/myapp",
		},
		{
			name: "module with hyphens",
			goModContent: `module github.com/user/my-update-service

go 1.21
`,
			wantTitle:  "My Update Service API",
			wantModule: "github.com/user/my-update-service",
		},
		{
			name: "module with underscores",
			goModContent: `module github.com/user/my_api_service

go 1.21
`,
			wantTitle:  "My Api Service API",
			wantModule: "github.com/user/my_api_service",
		},
		{
			name: "simple name",
			goModContent: `module api

go 1.21
`,
			wantTitle:  "Api API",
			wantModule: "api",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			goModPath := filepath.Join(tmpDir, "go.mod")
			err := os.WriteFile(goModPath, []byte(tt.goModContent), 0644)
			require.NoError(t, err)

			info := detectProjectInfo(tmpDir)

			assert.Equal(t, tt.wantModule, info.Module)
			assert.Equal(t, tt.wantTitle, info.Title)
		})
	}
}

func TestDetectProjectInfo_NoGoMod(t *testing.T) {
	tmpDir := t.TempDir()

	info := detectProjectInfo(tmpDir)

	assert.Empty(t, info.Module)
	assert.Empty(t, info.Title)
}

func TestBuildConfigYAML(t *testing.T) {
	cfg := config.Default()
	cfg.PathPrefix = "/api/upgrades"
	cfg.MandatoryParams = []string{"channel", "arch"}
	cfg.Doc.Title = "Update Graph API"

	yaml := buildConfigYAML(cfg)

	assert.Contains(t, yaml, "# graphdoc configuration file")
	assert.Contains(t, yaml, "listen:")
	assert.Contains(t, yaml, ":8080")
	assert.Contains(t, yaml, "mount: /openapi")
	assert.Contains(t, yaml, "pathPrefix: /api/upgrades")
	assert.Contains(t, yaml, "channel")
	assert.Contains(t, yaml, "arch")
	assert.Contains(t, yaml, "title: Update Graph API")
}

func TestInitCommand_CreatesConfig(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)
	resetGlobalFlags(t)
	resetInitFlags(t)

	_, err := executeCommand(rootCmd, "init", "--path-prefix", "/api/upgrades")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, "graphdoc.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "pathPrefix: /api/upgrades")

	// The written file loads back as valid configuration.
	cfg, err := config.LoadFromPath(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "/api/upgrades", cfg.PathPrefix)
	assert.NoError(t, cfg.Validate())
}

func TestInitCommand_TitleFromGoMod(t *testing.T) {
	tmpDir := t.TempDir()
	goMod := "module github.com/example/update-graph\n\ngo 1.21\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "go.mod"), []byte(goMod), 0o644))
	chdir(t, tmpDir)
	resetGlobalFlags(t)
	resetInitFlags(t)

	_, err := executeCommand(rootCmd, "init")
	require.NoError(t, err)

	cfg, err := config.LoadFromPath(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "Update Graph API", cfg.Doc.Title)
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "graphdoc.yaml"), []byte("listen: :9090\n"), 0o644))
	chdir(t, tmpDir)
	resetGlobalFlags(t)
	resetInitFlags(t)

	_, err := executeCommand(rootCmd, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// The existing file is untouched.
	data, err := os.ReadFile(filepath.Join(tmpDir, "graphdoc.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "listen: :9090\n", string(data))
}

func TestInitCommand_Force(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "graphdoc.yaml"), []byte("listen: :9090\n"), 0o644))
	chdir(t, tmpDir)
	resetGlobalFlags(t)
	resetInitFlags(t)

	_, err := executeCommand(rootCmd, "init", "--force", "--title", "Forced API")
	require.NoError(t, err)

	cfg, err := config.LoadFromPath(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "Forced API", cfg.Doc.Title)
	assert.Equal(t, ":8080", cfg.Listen)
}
