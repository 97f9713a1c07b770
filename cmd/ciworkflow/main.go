// Command ciworkflow prints the GitHub Actions workflow for this repository.
// Regenerate with `go run ./cmd/ciworkflow > .github/workflows/ci.yaml`.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type PushTrigger struct {
	Branches []string `yaml:"branches,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
}

type Trigger struct {
	Push        PushTrigger `yaml:"push,omitempty"`
	PullRequest PushTrigger `yaml:"pull_request,omitempty"`
}

type Args map[string]interface{}

type Step struct {
	Name string `yaml:"name,omitempty"`
	If   string `yaml:"if,omitempty"`
	Uses string `yaml:"uses,omitempty"`
	ID   string `yaml:"id,omitempty"`
	Run  string `yaml:"run,omitempty"`
	With Args   `yaml:"with,omitempty"`
	Env  Args   `yaml:"env,omitempty"`
}

type Job struct {
	RunsOn string   `yaml:"runs-on"`
	Needs  []string `yaml:"needs,omitempty"`
	If     string   `yaml:"if,omitempty"`
	Steps  []Step   `yaml:"steps"`
}

type Workflow struct {
	Name string  `yaml:"name"`
	On   Trigger `yaml:"on,omitempty"`
	Jobs map[string]Job
}

// Target is a GOOS/GOARCH pair the release job cross-compiles the CLI for.
type Target struct {
	OS   string
	Arch string
}

func (t Target) JobName() string { return fmt.Sprintf("build-%s-%s", t.OS, t.Arch) }

const goVersion = "1.18"

var (
	stepCheckout = Step{Name: "Checkout", Uses: "actions/checkout@v3"}
	stepSetupGo  = Step{
		Name: "Set up Go",
		Uses: "actions/setup-go@v3",
		With: Args{"go-version": goVersion},
	}
)

func WorkflowCI(targets ...Target) Workflow {
	jobs := make(map[string]Job, len(targets)+1)
	jobs["test"] = JobTest()
	for _, target := range targets {
		jobs[target.JobName()] = JobBuild(target)
	}
	return Workflow{
		Name: "ci",
		On: Trigger{
			Push: PushTrigger{
				Branches: []string{"*"},
				Tags:     []string{"v*"},
			},
			PullRequest: PushTrigger{Branches: []string{"master"}},
		},
		Jobs: jobs,
	}
}

func JobTest() Job {
	return Job{
		RunsOn: "ubuntu-latest",
		Steps: []Step{stepCheckout, stepSetupGo, {
			Name: "Vet",
			Run:  "go vet ./...",
		}, {
			Name: "Test",
			Run:  "go test -race ./...",
		}},
	}
}

func JobBuild(target Target) Job {
	binary := fmt.Sprintf("myfs-%s-%s", target.OS, target.Arch)
	return Job{
		RunsOn: "ubuntu-latest",
		Needs:  []string{"test"},
		If:     "startsWith(github.ref, 'refs/tags/')",
		Steps: []Step{stepCheckout, stepSetupGo, {
			Name: "Build",
			Run:  fmt.Sprintf("go build -o %s ./cmd/myfs", binary),
			Env: Args{
				"GOOS":        target.OS,
				"GOARCH":      target.Arch,
				"CGO_ENABLED": "0",
			},
		}, {
			Name: "Upload",
			Uses: "actions/upload-artifact@v3",
			With: Args{"name": binary, "path": binary},
		}},
	}
}

func MarshalToWriter(w io.Writer, v interface{}) error {
	yamlEncoder := yaml.NewEncoder(w)
	yamlEncoder.SetIndent(2)
	if err := yamlEncoder.Encode(v); err != nil {
		return fmt.Errorf("marshaling to YAML: %w", err)
	}
	return nil
}

func main() {
	if err := MarshalToWriter(
		os.Stdout,
		WorkflowCI(
			Target{OS: "linux", Arch: "amd64"},
			Target{OS: "linux", Arch: "arm64"},
			Target{OS: "darwin", Arch: "arm64"},
		),
	); err != nil {
		log.Fatalf("marshaling ci workflow: %v", err)
	}
}
