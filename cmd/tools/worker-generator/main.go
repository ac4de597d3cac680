// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"stylist-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name         string
	PackageName  string
	TaskType     string
	Description  string
	Category     string
	Timeout      string
	InputFields  string
	OutputFields string
	ErrorCodes   []string
}

func goTypeFromJSONType(jsonType interface{}) string {
	jt, _ := jsonType.(string)
	switch jt {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// generateStructFields renders schema properties as struct fields, sorted by name.
func generateStructFields(schema map[string]interface{}) string {
	props, _ := schema["properties"].(map[string]interface{})
	names := make([]string, 0, len(props))
	width := 0
	for name := range props {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)

	typeWidth := 0
	types := make(map[string]string, len(names))
	for _, name := range names {
		details, _ := props[name].(map[string]interface{})
		types[name] = goTypeFromJSONType(details["type"])
		if len(types[name]) > typeWidth {
			typeWidth = len(types[name])
		}
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("\t%-*s %-*s `json:\"%s,omitempty\"`", width, upperFirst(name), typeWidth, types[name], name))
	}
	return strings.Join(lines, "\n")
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func packageName(id string) string {
	return strings.ReplaceAll(strings.ToLower(id), "-", "")
}

const configTemplate = `// internal/workers/{{ .Category }}/{{ .Name }}/config.go
package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: {{ .Timeout }},
	}
}
`

const modelsTemplate = `// internal/workers/{{ .Category }}/{{ .Name }}/models.go
package {{ .PackageName }}

type Input struct {
{{ .InputFields }}
}

type Output struct {
{{ .OutputFields }}
}
`

const handlerTemplate = `// internal/workers/{{ .Category }}/{{ .Name }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "stylist-workers/internal/common/errors"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "{{ .TaskType }}"
)

var (
	ErrInvalidInput = errors.New("INVALID_STYLE_INPUT")
)

// Handler {{ .Description }}
type Handler struct {
	config     *Config
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job,
			apperrors.NewInvalidStyleInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, toStandardError(err))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	return nil, fmt.Errorf("%w: {{ .TaskType }} is not implemented", ErrInvalidInput)
}

func toStandardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidStyleInputError(err.Error())
	default:
		return apperrors.Normalize(err)
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`

const testTemplate = `// internal/workers/{{ .Category }}/{{ .Name }}/handler_test.go
package {{ .PackageName }}

import (
	"context"
	"testing"

	"stylist-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

func createTestConfig() *Config {
	return LoadConfig()
}

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(createTestConfig(), logger.NewTestLogger(t))
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	h := createTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
`

func main() {
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to activity registry")
	taskType := flag.String("taskType", "", "Task type of the activity to scaffold")
	outputDir := flag.String("output", "internal/workers", "Output directory for generated workers")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *taskType == "" {
		fmt.Println("Error: -taskType is required")
		flag.Usage()
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry: %v\n", err)
		os.Exit(1)
	}
	activity, ok := reg.Find(*taskType)
	if !ok {
		fmt.Printf("Error: activity %s not found in registry\n", *taskType)
		os.Exit(1)
	}

	data := WorkerData{
		Name:         activity.ID,
		PackageName:  packageName(activity.ID),
		TaskType:     activity.TaskType,
		Description:  strings.TrimSpace(activity.Description),
		Category:     strings.ToLower(activity.Category),
		Timeout:      goDuration(activity.TimeoutOr(30 * time.Second)),
		InputFields:  generateStructFields(activity.InputSchema),
		OutputFields: generateStructFields(activity.OutputSchema),
		ErrorCodes:   activity.ErrorCodes,
	}
	if data.Description == "" {
		data.Description = "handles " + activity.TaskType + " jobs."
	}

	workerDir := filepath.Join(*outputDir, data.Category, activity.ID)
	if err := os.MkdirAll(workerDir, 0o755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}

	templates := map[string]string{
		"config.go":       configTemplate,
		"models.go":       modelsTemplate,
		"handler.go":      handlerTemplate,
		"handler_test.go": testTemplate,
	}
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, filename := range names {
		filePath := filepath.Join(workerDir, filename)
		if _, err := os.Stat(filePath); err == nil && !*force {
			fmt.Printf("- Skipped %s (exists)\n", filePath)
			continue
		}
		if err := render(filePath, templates[filename], data); err != nil {
			fmt.Printf("Error generating %s: %v\n", filePath, err)
			os.Exit(1)
		}
		fmt.Printf("✓ Generated %s\n", filePath)
	}

	fmt.Printf("\nWorker scaffold generated at: %s\n", workerDir)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Implement execute in handler.go\n")
	fmt.Printf("  2. Map %s to apperrors constructors in toStandardError\n", strings.Join(data.ErrorCodes, ", "))
	fmt.Printf("  3. Register the worker in cmd/worker-manager/main.go\n")
	fmt.Printf("  4. Add the worker to configs/config.yaml\n")
}

func render(path, tmplStr string, data WorkerData) error {
	tmpl, err := template.New(filepath.Base(path)).Parse(tmplStr)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return tmpl.Execute(file, data)
}

// goDuration renders d as a Go expression, e.g. 2 * time.Minute.
func goDuration(d time.Duration) string {
	switch {
	case d%time.Minute == 0:
		return fmt.Sprintf("%d * time.Minute", d/time.Minute)
	case d%time.Second == 0:
		return fmt.Sprintf("%d * time.Second", d/time.Second)
	default:
		return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
	}
}
