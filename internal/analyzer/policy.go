package analyzer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"

	"changelog-lint/internal/models"
)

// Policy runs a user-supplied JavaScript function that may override the
// default breaking verdict of a classified event. The script must evaluate
// to a function, or define one named 'review'. The function receives the
// report object and returns true or false to override the verdict, or
// null/undefined to keep it.
type Policy struct {
	script string
	logger *logrus.Logger
}

// NewPolicy loads and validates the policy script at path.
func NewPolicy(path string, logger *logrus.Logger) (*Policy, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy script: %w", err)
	}

	p := &Policy{script: string(content), logger: logger}
	vm := goja.New()
	if _, err := p.reviewFunc(vm); err != nil {
		return nil, fmt.Errorf("invalid policy script %s: %w", path, err)
	}
	logger.Infof("Loaded policy script: %s", path)
	return p, nil
}

// Review returns the final breaking verdict for report.
func (p *Policy) Review(report models.Report) (bool, error) {
	// goja runtimes are not safe for reuse across calls that share no lock,
	// so each review gets a fresh one.
	vm := goja.New()
	p.setupConsoleBindings(vm)

	callable, err := p.reviewFunc(vm)
	if err != nil {
		return false, fmt.Errorf("policy script error: %w", err)
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return false, fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := vm.Set("reportJSON", string(reportJSON)); err != nil {
		return false, fmt.Errorf("failed to bind report: %w", err)
	}
	reportObj, err := vm.RunString("JSON.parse(reportJSON)")
	if err != nil {
		return false, fmt.Errorf("failed to bind report: %w", err)
	}

	result, err := callable(goja.Undefined(), reportObj)
	if err != nil {
		return false, fmt.Errorf("policy review function error: %w", err)
	}

	if result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
		return report.Breaking, nil
	}
	verdict, ok := result.Export().(bool)
	if !ok {
		return false, fmt.Errorf("policy review function must return a boolean, null or undefined, got %v", result)
	}
	if verdict != report.Breaking {
		p.logger.Debugf("Policy overrode verdict for %s %s: breaking=%v",
			report.Event.Kind, report.Event.Subject(), verdict)
	}
	return verdict, nil
}

// reviewFunc executes the script in vm and resolves the review function,
// accepting either an anonymous function result or a named 'review'
// function.
func (p *Policy) reviewFunc(vm *goja.Runtime) (goja.Callable, error) {
	result, err := vm.RunString(p.script)
	if err != nil {
		return nil, fmt.Errorf("failed to execute script: %w", err)
	}

	if result != nil && !goja.IsUndefined(result) && !goja.IsNull(result) {
		if fn, ok := goja.AssertFunction(result); ok {
			return fn, nil
		}
	}

	named := vm.Get("review")
	if named != nil && !goja.IsUndefined(named) && !goja.IsNull(named) {
		if fn, ok := goja.AssertFunction(named); ok {
			return fn, nil
		}
	}

	return nil, fmt.Errorf("script must export a function (either anonymous or named 'review')")
}

func (p *Policy) setupConsoleBindings(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", func(args ...interface{}) { p.logger.Info(args...) })
	console.Set("warn", func(args ...interface{}) { p.logger.Warn(args...) })
	console.Set("error", func(args ...interface{}) { p.logger.Error(args...) })
	vm.Set("console", console)
}
