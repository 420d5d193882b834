package conversion

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"vidconv/internal/encoding"
	"vidconv/internal/rendition"
	"vidconv/internal/services"
	"vidconv/internal/settings"
	"vidconv/internal/source"
)

// CollisionPolicy decides what happens when a planned output already exists.
type CollisionPolicy string

const (
	// PolicyFail rejects the plan.
	PolicyFail CollisionPolicy = "fail"
	// PolicyOverwrite lets ffmpeg replace the file.
	PolicyOverwrite CollisionPolicy = "overwrite"
	// PolicySuffix picks the first free "<stem>-<n><ext>".
	PolicySuffix CollisionPolicy = "suffix"
)

// ParseCollisionPolicy accepts fail, overwrite, or suffix. Empty means fail.
func ParseCollisionPolicy(value string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PolicyFail:
		return PolicyFail, nil
	case PolicyOverwrite:
		return PolicyOverwrite, nil
	case PolicySuffix:
		return PolicySuffix, nil
	}
	return "", fmt.Errorf("unknown collision policy %q (want fail, overwrite, or suffix)", value)
}

// Selection is one requested rendition. OutputName overrides the default
// output path: a relative name resolves against the source directory and the
// rendition's extension is appended when the name has none.
type Selection struct {
	Rendition  rendition.Rendition
	OutputName string
}

// ExistsFunc reports whether a file already exists at path.
type ExistsFunc func(path string) bool

// FileExists reports whether anything exists at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// Plan builds the tasks for a batch. It rejects renditions the source cannot
// produce without upscaling, video renditions without a configured bitrate,
// outputs that would overwrite the source, and two selections resolving to
// the same output. Existing files are handled by policy.
func Plan(src source.Descriptor, selections []Selection, snapshot settings.EncodeSettings, policy CollisionPolicy, exists ExistsFunc) ([]encoding.Task, error) {
	if len(selections) == 0 {
		return nil, services.Wrap(services.ErrValidation, "plan", "select renditions", "no renditions selected", nil)
	}
	if exists == nil {
		exists = FileExists
	}
	if policy == "" {
		policy = PolicyFail
	}
	snapshot = snapshot.Clone()
	sourcePath := filepath.Clean(src.Path)
	claimed := make(map[string]rendition.Rendition, len(selections))
	tasks := make([]encoding.Task, 0, len(selections))

	for _, sel := range selections {
		r := sel.Rendition
		if !r.Valid() {
			return nil, services.Wrap(services.ErrValidation, "plan", "select renditions", r.String(), nil)
		}
		if !rendition.Offered(src, r) {
			return nil, services.Wrap(services.ErrValidation, "plan", "select renditions",
				fmt.Sprintf("%s needs %d lines but %s has %d", r.Tag(), r.TargetHeight(), src.Name(), src.Height), nil)
		}
		if tier, ok := r.BitrateTier(); ok {
			if _, ok := snapshot.VideoBitrate(tier); !ok {
				return nil, services.Wrap(services.ErrConfiguration, "plan", "resolve bitrate",
					fmt.Sprintf("no video bitrate configured for %s", tier), nil)
			}
		}

		output := resolveOutput(src.Path, sel)
		if output == sourcePath {
			return nil, services.Wrap(services.ErrValidation, "plan", "resolve output",
				fmt.Sprintf("%s output would overwrite the source", r.Tag()), nil)
		}
		if prev, dup := claimed[output]; dup && policy != PolicySuffix {
			return nil, services.Wrap(services.ErrValidation, "plan", "resolve output",
				fmt.Sprintf("%s and %s both write %s", prev.Tag(), r.Tag(), output), nil)
		}

		taken := func(path string) bool {
			_, dup := claimed[path]
			return dup || path == sourcePath || exists(path)
		}
		switch policy {
		case PolicyFail:
			if exists(output) {
				return nil, services.Wrap(services.ErrValidation, "plan", "resolve output",
					fmt.Sprintf("%s already exists", output), nil)
			}
		case PolicyOverwrite:
		case PolicySuffix:
			if taken(output) {
				output = nextFree(output, taken)
			}
		default:
			return nil, services.Wrap(services.ErrConfiguration, "plan", "resolve output",
				fmt.Sprintf("unknown collision policy %q", policy), nil)
		}

		claimed[output] = r
		tasks = append(tasks, encoding.Task{
			SourcePath: src.Path,
			OutputPath: output,
			Rendition:  r,
			Settings:   snapshot,
		})
	}
	return tasks, nil
}

func resolveOutput(sourcePath string, sel Selection) string {
	name := strings.TrimSpace(sel.OutputName)
	if name == "" {
		return filepath.Clean(rendition.NameFor(sourcePath, sel.Rendition))
	}
	if filepath.Ext(name) == "" {
		name += sel.Rendition.Extension()
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(filepath.Dir(sourcePath), name)
	}
	return filepath.Clean(name)
}

func nextFree(path string, taken func(string) bool) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := stem + "-" + strconv.Itoa(n) + ext
		if !taken(candidate) {
			return candidate
		}
	}
}
