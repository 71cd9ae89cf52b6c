/*
DESCRIPTION
  file.go provides loading of configuration variables from a JSON file.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadFile reads a JSON object of configuration variables from path and
// returns it in the form accepted by Config.Update. Values may be strings,
// numbers, booleans or arrays of these; arrays are joined with commas.
func ReadFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return parseJSON(b)
}

func parseJSON(b []byte) (map[string]string, error) {
	var raw map[string]interface{}
	err := json.Unmarshal(b, &raw)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	vars := make(map[string]string, len(raw))
	for k, v := range raw {
		s, err := stringify(v)
		if err != nil {
			return nil, fmt.Errorf("bad value for %s: %w", k, err)
		}
		vars[k] = s
	}
	return vars, nil
}

func stringify(v interface{}) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case []interface{}:
		parts := make([]string, len(v))
		for i, e := range v {
			s, err := stringify(e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, ","), nil
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}
