package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// CmdBatch decodes every entry listed in a YAML manifest.
type CmdBatch struct {
	Args struct {
		Path string `positional-arg-name:"path" description:"Path to a YAML manifest of decode jobs" required:"yes"`
	} `positional-args:"yes" required:"yes"`

	Only []string `short:"p" long:"project" description:"Run only jobs whose input file name (without directory) matches; manifest job names are not matched (repeatable)" yaml:"-"`
}

// Execute runs the batch command.
func (c *CmdBatch) Execute(args []string) error {
	return runBatch(c)
}

func runBatch(opts *CmdBatch) error {
	data, err := os.ReadFile(opts.Args.Path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	jobs, err := parseDecodeJobs(data)
	if err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no jobs found in %q", opts.Args.Path)
	}

	baseDir := filepath.Dir(opts.Args.Path)
	selected, err := filterDecodeJobs(jobs, opts.Only, baseDir)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("no jobs selected")
	}

	for i := range selected {
		if err := runDecode(&selected[i]); err != nil {
			return fmt.Errorf("job %d (%s): %w", i, selected[i].Args.Input, err)
		}
	}

	return nil
}

// decodeJob is one manifest entry: an optional name, used as the input path
// when the entry sets none, plus the embedded decode flags.
type decodeJob struct {
	Name   string    `yaml:"name"`
	Decode CmdDecode `yaml:",inline"`
}

func parseDecodeJobs(data []byte) ([]CmdDecode, error) {
	var doc struct {
		Jobs []decodeJob `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Jobs) > 0 {
		out := make([]CmdDecode, len(doc.Jobs))
		for i, j := range doc.Jobs {
			out[i] = j.Decode
			if out[i].Args.Input == "" {
				out[i].Args.Input = j.Name
			}
		}
		return out, nil
	}

	var list []CmdDecode
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func filterDecodeJobs(jobs []CmdDecode, only []string, baseDir string) ([]CmdDecode, error) {
	for i := range jobs {
		if err := defaults.Set(&jobs[i]); err != nil {
			return nil, fmt.Errorf("apply defaults: %w", err)
		}
		jobs[i].Args.Input = resolveRelativePath(baseDir, jobs[i].Args.Input)
		jobs[i].Args.Output = resolveRelativePath(baseDir, jobs[i].Args.Output)
	}
	if len(only) == 0 {
		return jobs, nil
	}

	onlySet := make(map[string]struct{}, len(only))
	for _, name := range only {
		name = strings.TrimSpace(name)
		if name != "" {
			onlySet[name] = struct{}{}
		}
	}

	out := make([]CmdDecode, 0, len(jobs))
	for _, j := range jobs {
		if _, ok := onlySet[filepath.Base(j.Args.Input)]; ok {
			out = append(out, j)
		}
	}
	return out, nil
}

func resolveRelativePath(baseDir, path string) string {
	if strings.TrimSpace(path) == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
