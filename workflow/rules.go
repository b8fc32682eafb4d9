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
	"time"

	"github.com/poiesic/docflow/core"
)

// Rule pairs a condition with the action to run when it holds.
// Rules are evaluated when a document enters the stage they are attached to.
type Rule struct {
	Condition Condition
	Action    Action
}

// Condition is a closed set of rule triggers. Each variant carries exactly
// the data its evaluation needs.
type Condition interface {
	isCondition()
}

// StatusChange holds when the document has just entered the named stage or
// carries it as its status.
type StatusChange struct {
	Status string
}

// StageDuration holds when the document has sat in its current stage for at
// least MinDuration.
type StageDuration struct {
	MinDuration time.Duration
}

// DocumentTypeIs holds when the document is of the named type.
type DocumentTypeIs struct {
	Type core.DocumentType
}

// PriorityLevel holds when the document carries the named priority.
type PriorityLevel struct {
	Priority string
}

// CompletionAtLeast holds when the document's completion percentage has
// reached the threshold.
type CompletionAtLeast struct {
	Percentage int
}

// HasRelationships holds when the document is the source of at least
// Minimum relationship edges.
type HasRelationships struct {
	Minimum int
}

// Comparison operators accepted by CustomField conditions.
const (
	OpEquals      = "equals"
	OpNotEquals   = "not_equals"
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
	OpContains    = "contains"
	OpStartsWith  = "starts_with"
	OpEndsWith    = "ends_with"
	OpIn          = "in"
	OpNotIn       = "not_in"
)

// CustomField compares a document metadata field against a value.
// For OpIn and OpNotIn, Value is a comma-separated list.
// Numeric operators fall back to string comparison when either side does
// not parse as a number.
type CustomField struct {
	Field    string
	Operator string
	Value    string
}

func (StatusChange) isCondition()      {}
func (StageDuration) isCondition()     {}
func (DocumentTypeIs) isCondition()    {}
func (PriorityLevel) isCondition()     {}
func (CompletionAtLeast) isCondition() {}
func (HasRelationships) isCondition()  {}
func (CustomField) isCondition()       {}

// Action is a closed set of rule effects.
type Action interface {
	isAction()
}

// AdvanceStage moves the document's workflow to the named stage.
type AdvanceStage struct {
	Stage string
}

// CreateDocument creates a new document generated from the source document.
// TitleSuffix is appended to the source title. When InheritKeywords is set
// the new document copies the source's keywords.
type CreateDocument struct {
	Type            core.DocumentType
	TitleSuffix     string
	Priority        string
	InheritKeywords bool
}

// UpdateStatus sets the document's status field.
type UpdateStatus struct {
	Status string
}

// AssignReviewer records a reviewer in the document metadata.
type AssignReviewer struct {
	Reviewer string
}

// GenerateArtifacts records named artifacts on the workflow state.
type GenerateArtifacts struct {
	Artifacts []string
}

// SendNotification emits a notification. Delivery is a logging concern; the
// engine records the message in the workflow results.
type SendNotification struct {
	Message string
}

// UpdateRelationships regenerates the document's auto-generated
// relationship edges.
type UpdateRelationships struct{}

func (AdvanceStage) isAction()        {}
func (CreateDocument) isAction()      {}
func (UpdateStatus) isAction()        {}
func (AssignReviewer) isAction()      {}
func (GenerateArtifacts) isAction()   {}
func (SendNotification) isAction()    {}
func (UpdateRelationships) isAction() {}
