// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package workflow

import (
	"slices"

	"github.com/poiesic/docflow/core"
)

// Workflow definition names.
const (
	VisionWorkflow  = "vision_workflow"
	ADRWorkflow     = "adr_workflow"
	PRDWorkflow     = "prd_workflow"
	EpicWorkflow    = "epic_workflow"
	FeatureWorkflow = "feature_workflow"
	TaskWorkflow    = "task_workflow"
	DefaultWorkflow = "default_workflow"
)

// Artifact names generated by PRD approval.
const (
	ArtifactSummaryReport     = "summary_report"
	ArtifactChecklist         = "checklist"
	ArtifactStakeholderMatrix = "stakeholder_matrix"
)

// Definition is a data-driven workflow: a stage graph plus automation rules
// keyed by the stage that triggers them.
type Definition struct {
	Name        string
	Stages      []string
	Transitions map[string][]string
	Approvals   []string
	Rules       map[string][]Rule
}

// NextStages returns the stages reachable from the given stage.
// Unknown and terminal stages return nil.
func (d *Definition) NextStages(stage string) []string {
	return d.Transitions[stage]
}

// CanTransition reports whether to is reachable from from.
// It holds exactly when to is in NextStages(from).
func (d *Definition) CanTransition(from, to string) bool {
	return slices.Contains(d.Transitions[from], to)
}

// RequiresApproval reports whether entering the stage is approval-gated.
func (d *Definition) RequiresApproval(stage string) bool {
	return slices.Contains(d.Approvals, stage)
}

// AutomationRules returns the rules evaluated when a document enters the stage.
func (d *Definition) AutomationRules(stage string) []Rule {
	return d.Rules[stage]
}

// ValidStage reports whether the stage belongs to this definition.
func (d *Definition) ValidStage(stage string) bool {
	return slices.Contains(d.Stages, stage)
}

// InitialStage returns the definition's first stage.
func (d *Definition) InitialStage() string {
	return d.Stages[0]
}

var definitions = map[string]*Definition{
	VisionWorkflow: {
		Name:   VisionWorkflow,
		Stages: []string{"draft", "stakeholder_review", "approved", "active"},
		Transitions: map[string][]string{
			"draft":              {"stakeholder_review"},
			"stakeholder_review": {"approved", "draft"},
			"approved":           {"active"},
		},
		Approvals: []string{"approved", "active"},
	},
	ADRWorkflow: {
		Name:   ADRWorkflow,
		Stages: []string{"proposed", "discussion", "decided", "implemented"},
		Transitions: map[string][]string{
			"proposed":   {"discussion", "decided"},
			"discussion": {"decided", "proposed"},
			"decided":    {"implemented"},
		},
		Approvals: []string{"decided", "implemented"},
	},
	PRDWorkflow: {
		Name:   PRDWorkflow,
		Stages: []string{"draft", "review", "approved", "implementation", "completed"},
		Transitions: map[string][]string{
			"draft":          {"review"},
			"review":         {"approved", "draft"},
			"approved":       {"implementation"},
			"implementation": {"completed"},
		},
		Approvals: []string{"approved", "completed"},
		Rules: map[string][]Rule{
			"approved": {
				{
					Condition: StatusChange{Status: "approved"},
					Action: CreateDocument{
						Type:            core.DocumentTypeEpic,
						TitleSuffix:     "Epic",
						Priority:        "high",
						InheritKeywords: true,
					},
				},
				{
					Condition: StatusChange{Status: "approved"},
					Action: GenerateArtifacts{
						Artifacts: []string{
							ArtifactSummaryReport,
							ArtifactChecklist,
							ArtifactStakeholderMatrix,
						},
					},
				},
			},
		},
	},
	EpicWorkflow: {
		Name:   EpicWorkflow,
		Stages: []string{"draft", "groomed", "in_progress", "completed"},
		Transitions: map[string][]string{
			"draft":       {"groomed"},
			"groomed":     {"in_progress"},
			"in_progress": {"completed"},
		},
		Approvals: []string{"groomed", "completed"},
		Rules: map[string][]Rule{
			"groomed": {
				{
					Condition: StatusChange{Status: "groomed"},
					Action: CreateDocument{
						Type:            core.DocumentTypeFeature,
						TitleSuffix:     "Feature",
						InheritKeywords: true,
					},
				},
			},
		},
	},
	FeatureWorkflow: {
		Name:   FeatureWorkflow,
		Stages: []string{"draft", "approved", "implementation", "testing", "completed"},
		Transitions: map[string][]string{
			"draft":          {"approved"},
			"approved":       {"implementation"},
			"implementation": {"testing"},
			"testing":        {"completed", "implementation"},
		},
		Approvals: []string{"approved", "completed"},
		Rules: map[string][]Rule{
			"approved": {
				{
					Condition: StatusChange{Status: "approved"},
					Action: CreateDocument{
						Type:            core.DocumentTypeTask,
						TitleSuffix:     "Task",
						InheritKeywords: true,
					},
				},
			},
		},
	},
	TaskWorkflow: {
		Name:   TaskWorkflow,
		Stages: []string{"todo", "in_progress", "review", "done"},
		Transitions: map[string][]string{
			"todo":        {"in_progress"},
			"in_progress": {"review", "done"},
			"review":      {"done", "in_progress"},
		},
		Approvals: []string{"done"},
	},
	DefaultWorkflow: {
		Name:   DefaultWorkflow,
		Stages: []string{"draft", "review", "approved", "completed"},
		Transitions: map[string][]string{
			"draft":    {"review"},
			"review":   {"approved", "draft"},
			"approved": {"completed"},
		},
		Approvals: []string{"approved", "completed"},
	},
}

var workflowByType = map[core.DocumentType]string{
	core.DocumentTypeVision:  VisionWorkflow,
	core.DocumentTypeADR:     ADRWorkflow,
	core.DocumentTypePRD:     PRDWorkflow,
	core.DocumentTypeEpic:    EpicWorkflow,
	core.DocumentTypeFeature: FeatureWorkflow,
	core.DocumentTypeTask:    TaskWorkflow,
}

// DefinitionFor returns the workflow definition for a document type.
// Types without a dedicated workflow get the default one.
func DefinitionFor(t core.DocumentType) *Definition {
	if name, ok := workflowByType[t]; ok {
		return definitions[name]
	}
	return definitions[DefaultWorkflow]
}

// DefinitionByName returns the named workflow definition.
func DefinitionByName(name string) (*Definition, error) {
	def, ok := definitions[name]
	if !ok {
		return nil, ErrUnknownWorkflow
	}
	return def, nil
}

// Definitions returns every registered workflow definition.
func Definitions() []*Definition {
	defs := make([]*Definition, 0, len(definitions))
	for _, def := range definitions {
		defs = append(defs, def)
	}
	return defs
}
