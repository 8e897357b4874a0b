package analysis

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/kbukum/startup-analyzer/workflow"
)

// Temperature is the sampling temperature of every completion call.
const Temperature = 0.3

// Stage and task names, in pipeline order.
const (
	StageProcessor = "processor"
	StageAnalyst   = "analyst"
	StageInsight   = "insight"

	TaskProcess = "process"
	TaskAnalyze = "analyze"
	TaskInsight = "insight"
)

//go:embed prompts/*.md
var promptFS embed.FS

var prompts = template.Must(template.New("prompts").ParseFS(promptFS, "prompts/*.md"))

var personas = []workflow.StageConfig{
	{
		Name: StageProcessor,
		Role: "Data Processing Specialist",
		Goal: "Process and structure startup data for analysis",
		Backstory: "You are an expert in data analysis with deep knowledge of startup ecosystems. " +
			"Your role is to process and structure raw startup data to enable meaningful analysis.",
	},
	{
		Name: StageAnalyst,
		Role: "Market Research Analyst",
		Goal: "Analyze market trends and patterns in the startup ecosystem",
		Backstory: "You are a seasoned market analyst specializing in AI and technology startups. " +
			"You excel at identifying patterns, trends, and market opportunities.",
	},
	{
		Name: StageInsight,
		Role: "Strategic Insight Generator",
		Goal: "Generate actionable insights and recommendations",
		Backstory: "You are an expert in synthesizing complex startup ecosystem data into clear, actionable insights. " +
			"You specialize in identifying key trends and making strategic recommendations.",
	},
}

// Stages returns the processor, analyst and insight stages bound to c.
func Stages(c workflow.Completer, verbose bool) ([]workflow.Stage, error) {
	stages := make([]workflow.Stage, 0, len(personas))
	for _, p := range personas {
		p.Completer = c
		p.Verbose = verbose
		s, err := workflow.NewStage(p)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}

type promptData struct {
	QueryType string
	Custom    string
	Data      string
}

// BuildTasks resolves the three task prompts for data and q and binds them
// to stages, which must come from Stages.
func BuildTasks(data string, q Query, stages []workflow.Stage) ([]workflow.Task, error) {
	if len(stages) != len(personas) {
		return nil, fmt.Errorf("analysis: expected %d stages, got %d", len(personas), len(stages))
	}

	in := promptData{QueryType: string(q.Type), Custom: q.customText(), Data: data}
	specs := []struct {
		task, file string
	}{
		{TaskProcess, "process.md"},
		{TaskAnalyze, "analyze.md"},
		{TaskInsight, "insight.md"},
	}

	tasks := make([]workflow.Task, 0, len(specs))
	for i, s := range specs {
		prompt, err := render(s.file, in)
		if err != nil {
			return nil, err
		}
		task, err := workflow.NewTask(s.task, prompt, stages[i])
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func render(name string, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("analysis: render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
