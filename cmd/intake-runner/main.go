// cmd/intake-runner/main.go
//
// Headless driver for the business intake funnel. It walks a form through
// the same wizard the TUI uses, filling answers from a YAML file and flag
// overrides, then submits the result to the configured endpoint. Useful for
// scripting registrations and for smoke-testing an API endpoint.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reviewhut/reviewhut/forms"
	"github.com/reviewhut/reviewhut/internal/config"
	"github.com/reviewhut/reviewhut/internal/funnel"
	"github.com/reviewhut/reviewhut/internal/submission"
)

func main() {
	formID := flag.String("form", forms.BusinessIntakeID, "form identifier to run")
	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	answersFile := flag.String("answers", "", "path to a YAML file of field answers")
	endpoint := flag.String("endpoint", "", "override the submission endpoint")
	timeout := flag.Duration("timeout", 30*time.Second, "submission timeout")
	dryRun := flag.Bool("dry-run", false, "validate and print the payload without submitting")
	sets := keyValueFlag{}
	flag.Var(&sets, "set", "field answer override (name=value, repeatable)")
	flag.Parse()

	project := *projectDir
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			die("determine working directory: %v", err)
		}
	}
	absoluteProject, err := filepath.Abs(project)
	if err != nil {
		die("resolve project dir: %v", err)
	}
	if err := config.InitReviewHutDir(absoluteProject); err != nil {
		die("init .reviewhut: %v", err)
	}
	cfg, err := config.NewConfig(absoluteProject)
	if err != nil {
		die("load config: %v", err)
	}

	registry := forms.NewRegistry()
	forms.RegisterBuiltins(registry)
	if err := forms.RegisterDirectory(registry, cfg.FormsDir()); err != nil {
		die("load custom forms: %v", err)
	}
	def, err := registry.Resolve(strings.TrimSpace(*formID))
	if err != nil {
		die("resolve form: %v", err)
	}

	answers, err := buildAnswers(*answersFile, sets)
	if err != nil {
		die("load answers: %v", err)
	}

	wizard, err := funnel.NewWizard(def)
	if err != nil {
		die("mount form: %v", err)
	}
	if err := walkFunnel(wizard, answers); err != nil {
		die("%v", err)
	}
	snap, err := wizard.Finalize()
	if err != nil {
		reportErrors(wizard)
		die("pre-submit check failed at step %d", wizard.StepIndex()+1)
	}

	payload := submission.BuildPayload(snap)
	if *dryRun {
		encoded, err := yaml.Marshal(payload)
		if err != nil {
			die("encode payload: %v", err)
		}
		fmt.Printf("Payload for %s:\n%s", def.ID, encoded)
		return
	}

	target := strings.TrimSpace(*endpoint)
	if target == "" {
		target = cfg.Project.API.Endpoint
	}
	if target == "" {
		die("no endpoint configured: set api.endpoint in .reviewhut/config.yaml or pass --endpoint")
	}

	transport := submission.NewHTTPTransport(target, *timeout)
	done := make(chan submission.State, 1)
	controller, err := submission.NewController(transport,
		submission.WithNotify(func(s submission.State) { done <- s }))
	if err != nil {
		die("build controller: %v", err)
	}
	if !controller.Submit(context.Background(), snap) {
		die("submission did not start")
	}
	state := <-done
	switch state.Status {
	case submission.StatusSucceeded:
		fmt.Printf("Registered %q\n", payload["businessName"])
		if len(state.Result) > 0 {
			fmt.Printf("Server response: %s\n", state.Result)
		}
	case submission.StatusFailed:
		die("submission failed: %s", state.ErrorMessage)
	default:
		die("unexpected terminal state: %s", state.Status)
	}
}

// walkFunnel applies answers step by step, re-reading the view after every
// change so conditional fields get their answers too.
func walkFunnel(wizard *funnel.Wizard, answers map[string]string) error {
	for !wizard.Reviewing() {
		for changed := true; changed; {
			changed = false
			for _, field := range wizard.View().Fields {
				value, ok := answers[field.Definition.Name]
				if !ok || field.Value == value {
					continue
				}
				wizard.ChangeField(field.Definition.Name, value)
				changed = true
			}
		}
		if err := wizard.Advance(); err != nil {
			reportErrors(wizard)
			return fmt.Errorf("step %d is incomplete", wizard.StepIndex()+1)
		}
	}
	return nil
}

func reportErrors(wizard *funnel.Wizard) {
	for _, name := range wizard.Form().FieldNames() {
		if msg := wizard.Errors()[name]; msg != "" {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", name, msg)
		}
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

type keyValueFlag map[string]string

func (kv *keyValueFlag) String() string {
	if kv == nil || len(*kv) == 0 {
		return ""
	}
	var pairs []string
	for key, value := range *kv {
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, value))
	}
	return strings.Join(pairs, ", ")
}

func (kv *keyValueFlag) Set(value string) error {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("expected name=value, got %q", value)
	}
	key := strings.TrimSpace(parts[0])
	if key == "" {
		return fmt.Errorf("answer name is empty in %q", value)
	}
	if *kv == nil {
		*kv = keyValueFlag{}
	}
	(*kv)[key] = parts[1]
	return nil
}

func buildAnswers(answersFile string, overrides keyValueFlag) (map[string]string, error) {
	answers := map[string]string{}
	if path := strings.TrimSpace(answersFile); path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("open answers file %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory, expected a file", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read answers file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &answers); err != nil {
			return nil, fmt.Errorf("parse answers file %s: %w", path, err)
		}
	}
	for key, value := range overrides {
		answers[key] = value
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("no answers provided: pass --answers or --set")
	}
	return answers, nil
}
