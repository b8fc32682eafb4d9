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

package relationship

import "github.com/poiesic/docflow/core"

// parentTypes maps each document type to the types it may attach to as a
// child. Order matters: candidate parents are considered type by type in the
// order listed here.
var parentTypes = map[core.DocumentType][]core.DocumentType{
	core.DocumentTypeVision:        nil,
	core.DocumentTypeADR:           {core.DocumentTypeVision},
	core.DocumentTypePRD:           {core.DocumentTypeVision, core.DocumentTypeADR},
	core.DocumentTypeEpic:          {core.DocumentTypePRD, core.DocumentTypeVision},
	core.DocumentTypeFeature:       {core.DocumentTypeEpic, core.DocumentTypePRD},
	core.DocumentTypeTask:          {core.DocumentTypeFeature, core.DocumentTypeEpic},
	core.DocumentTypeCode:          {core.DocumentTypeFeature, core.DocumentTypeTask},
	core.DocumentTypeTest:          {core.DocumentTypeCode, core.DocumentTypeFeature},
	core.DocumentTypeDocumentation: {core.DocumentTypeFeature, core.DocumentTypeCode},
}

// ParentTypes returns the allowed parent document types for a document type.
// Vision documents have no parents and return nil.
func ParentTypes(t core.DocumentType) []core.DocumentType {
	return parentTypes[t]
}

// generationRule maps a source document type to the type its workflow
// automation generates.
type generationRule struct {
	Source core.DocumentType
	Target core.DocumentType
}

// generationRules are the static workflow-generation rules used to recover
// generates edges from document metadata.
var generationRules = []generationRule{
	{Source: core.DocumentTypePRD, Target: core.DocumentTypeEpic},
	{Source: core.DocumentTypeEpic, Target: core.DocumentTypeFeature},
	{Source: core.DocumentTypeFeature, Target: core.DocumentTypeTask},
}
