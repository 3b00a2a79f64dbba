package vaxpatch

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

const DefaultScript = "patch.txt"

// Config holds the settings that can be read from an HCL file. Unset
// attributes keep their zero value.
type Config struct {
	Script         string `hcl:"script,optional"`
	BackupSuffix   string `hcl:"backup_suffix,optional"`
	CompressBackup bool   `hcl:"compress_backup,optional"`
	LogLevel       string `hcl:"log_level,optional"`
}

// LoadConfig decodes the HCL file at path. Expressions may refer to
// environment variables as env.NAME.
func LoadConfig(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %s", path, diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, envContext(os.Environ()), &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %s", path, diags.Error())
	}

	return &cfg, nil
}

// Options converts the config to interpreter options.
func (c *Config) Options() []FuncOption {
	var o []FuncOption
	if c.BackupSuffix != "" {
		o = append(o, WithBackupSuffix(c.BackupSuffix))
	}
	if c.CompressBackup {
		o = append(o, WithCompressedBackup())
	}
	return o
}

func envContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}

	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}
