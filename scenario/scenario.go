// Package scenario reads plan and budget-advice requests from JSON, YAML or
// TOML files.
package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"debt-planner/domain"
)

// Load decodes the file at path into v, picking the format by extension.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading scenario: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(v)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(v)
	case ".toml":
		var md toml.MetaData
		md, err = toml.Decode(string(data), v)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = fmt.Errorf("unknown keys %v", undecoded)
			}
		}
	default:
		return fmt.Errorf("unsupported scenario format %q (want .json, .yaml, .yml or .toml)", ext)
	}
	if err != nil {
		return fmt.Errorf("parsing scenario %s: %w", filepath.Base(path), err)
	}
	return nil
}

func LoadPlan(path string) (domain.PlanRequest, error) {
	var req domain.PlanRequest
	if err := Load(path, &req); err != nil {
		return domain.PlanRequest{}, err
	}
	return req, nil
}

func LoadAdvice(path string) (domain.BudgetAdviceRequest, error) {
	var req domain.BudgetAdviceRequest
	if err := Load(path, &req); err != nil {
		return domain.BudgetAdviceRequest{}, err
	}
	return req, nil
}
