//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const fixtureViruses = `[
  {"id": "v-flu", "name": "Influenza A virus"},
  {"id": "v-zika", "name": "Zika virus"},
  {"id": "v-dengue", "name": "Dengue virus"},
  {"id": "v-measles", "name": "Measles virus"}
]`

const fixtureSearchIndex = `{
  "viruses": [],
  "proteins": [
    {"id": "p-ha", "name": "Hemagglutinin", "virusId": "v-flu", "virusName": "Influenza A virus"},
    {"id": "p-na", "name": "Neuraminidase", "virusId": "v-flu", "virusName": "Influenza A virus"},
    {"id": "p-env", "name": "Envelope protein E", "virusId": "v-zika", "virusName": "Zika virus"}
  ]
}`

// CreateTestWorkspace creates the isolated HOME / config directory for one test
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// CreateTestDataset writes a small dataset into the workspace and returns its directory
func (tf *TUITestFramework) CreateTestDataset(name string) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}
	dir := filepath.Join(tf.workspace, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "viruses.json"), []byte(fixtureViruses), 0644); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "search_index.json"), []byte(fixtureSearchIndex), 0644); err != nil {
		return "", err
	}
	return dir, nil
}

// WriteConfig writes config.toml where the app looks for it under XDG_CONFIG_HOME
func (tf *TUITestFramework) WriteConfig(contents string) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}
	dir := filepath.Join(tf.workspace, "tilescope")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "config.toml")
	return path, os.WriteFile(path, []byte(contents), 0644)
}
