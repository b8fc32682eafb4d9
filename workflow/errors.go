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

import "errors"

var (
	// ErrUnknownWorkflow is returned when no definition exists for a
	// workflow name.
	ErrUnknownWorkflow = errors.New("unknown workflow")

	// ErrUnknownStage is returned when a stage does not belong to the
	// workflow definition.
	ErrUnknownStage = errors.New("unknown workflow stage")

	// ErrInvalidTransition is returned when a requested stage is not
	// reachable from the current stage.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrUnsupportedAction marks an automation action the engine cannot
	// execute. It is logged, never returned from Advance.
	ErrUnsupportedAction = errors.New("unsupported automation action")

	// ErrStateRepositoryRequired is returned when no workflow state repository is provided.
	ErrStateRepositoryRequired = errors.New("workflow state repository is required")

	// ErrDocumentRepositoryRequired is returned when no document repository is provided.
	ErrDocumentRepositoryRequired = errors.New("document repository is required")
)
