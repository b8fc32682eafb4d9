package badger

import (
	"fmt"

	"github.com/poiesic/docflow/core"
)

// Key prefixes for different data types
const (
	documentPrefix        = "docrec"
	documentProjectPrefix = "docproj"
	documentTypePrefix    = "doctype"
	relationshipPrefix    = "relrec"
	relationshipSrcPrefix = "relsrc"
	relationshipTgtPrefix = "reltgt"
	workflowStatePrefix   = "wfstate"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentPrefix, id))
}

// makeDocumentProjectKey generates a composite key for the project index.
// Format: prefix:projectId:documentId
func makeDocumentProjectKey(projectId, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", documentProjectPrefix, projectId, id))
}

// makePartialDocumentProjectKey generates a partial key for project scans.
func makePartialDocumentProjectKey(projectId string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", documentProjectPrefix, projectId))
}

// makeDocumentTypeKey generates a composite key for the project+type index.
// Format: prefix:projectId:type:documentId
func makeDocumentTypeKey(projectId string, docType core.DocumentType, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:%s", documentTypePrefix, projectId, docType, id))
}

// makePartialDocumentTypeKey generates a partial key for project+type scans.
func makePartialDocumentTypeKey(projectId string, docType core.DocumentType) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:", documentTypePrefix, projectId, docType))
}

// makeRelationshipKey generates a key for a relationship edge by ID.
func makeRelationshipKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", relationshipPrefix, id))
}

// makeRelationshipSrcKey generates a composite key for the source index.
// Format: prefix:sourceDocumentId:edgeId
func makeRelationshipSrcKey(sourceId string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", relationshipSrcPrefix, sourceId, id))
}

// makePartialRelationshipSrcKey generates a partial key for source scans.
func makePartialRelationshipSrcKey(sourceId string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", relationshipSrcPrefix, sourceId))
}

// makeRelationshipTgtKey generates a composite key for the target index.
// Format: prefix:targetDocumentId:edgeId
func makeRelationshipTgtKey(targetId string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", relationshipTgtPrefix, targetId, id))
}

// makePartialRelationshipTgtKey generates a partial key for target scans.
func makePartialRelationshipTgtKey(targetId string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", relationshipTgtPrefix, targetId))
}

// makeWorkflowStateKey generates a key for a document's workflow state.
func makeWorkflowStateKey(documentId string) []byte {
	return []byte(fmt.Sprintf("%s:%s", workflowStatePrefix, documentId))
}
