package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/utils"
)

// LoadFromDirectory registers every scenario file found under dir.
// Expected structure:
//
//	dir/
//	  utility/
//	    reference_10mw.yaml
//	  rooftop/
//	    warehouse.hjson
//	  baseline.json
//
// IDs default to the dotted relative path without extension and categories
// to the first folder name. It returns the number of scenarios loaded.
func LoadFromDirectory(r *Registry, dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, fmt.Errorf("scenario directory not found: %s", dir)
	}

	loaded := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isScenarioFile(path) {
			return nil
		}

		s, err := LoadFile(path)
		if err != nil {
			return err
		}
		if s.ID == "" {
			s.ID = generateIDFromPath(path, dir)
		}
		if s.Category == "" {
			s.Category = detectCategory(path, dir)
		}

		if err := r.Register(s); err != nil {
			return fmt.Errorf("failed to register %s: %w", path, err)
		}
		loaded++
		return nil
	})
	if err != nil {
		return loaded, err
	}

	fmt.Printf("[SCENARIO] Loaded %d scenarios from %s\n", loaded, dir)
	return loaded, nil
}

// LoadFile parses one scenario file. The format follows the extension:
// .yaml/.yml through yaml.v2, anything else through utils.SmartParse.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var s Scenario
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.UnmarshalStrict(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		_, stage, err := utils.SmartParse(data, &s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if stage == utils.StageRepaired {
			fmt.Printf("[WARNING] %s was malformed JSON and had to be repaired\n", path)
		}
	}
	return &s, nil
}

func isScenarioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".hjson", ".yaml", ".yml":
		return true
	}
	return false
}

// generateIDFromPath creates a scenario ID from the file path
// e.g., "scenarios/utility/reference_10mw.yaml" -> "utility.reference_10mw"
func generateIDFromPath(path string, baseDir string) string {
	relPath, _ := filepath.Rel(baseDir, path)
	relPath = strings.TrimSuffix(relPath, filepath.Ext(relPath))
	return strings.ReplaceAll(relPath, string(filepath.Separator), ".")
}

func detectCategory(path string, baseDir string) string {
	relPath, _ := filepath.Rel(baseDir, path)
	parts := strings.Split(relPath, string(filepath.Separator))
	if len(parts) > 1 {
		return parts[0]
	}
	return "default"
}
