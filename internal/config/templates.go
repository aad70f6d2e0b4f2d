package config

import (
	"fmt"
	"os"
)

// Template returns a commented starter config matching Default.
func Template() string {
	return template
}

// WriteTemplate writes Template to path, refusing to replace an existing
// file unless overwrite is set.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const template = `[decode]
# reject record tags outside the known table
strict = false
# reject records whose data type byte disagrees with the table
check_data_type = false
max_record_bytes = 65535

[log]
level = "info"
timestamp = true
no_color = false

[output]
# text, json or yaml
format = "text"
metrics_file = ""

[summary]
workers = 4
pattern = "**/*.gds"
`
