package core

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for derived entities such as relationships.
// It is generated from content-based hashing so that regenerating the same
// entity always yields the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NewDocumentID generates an opaque document identifier.
func NewDocumentID() string {
	return uuid.NewString()
}

// ChecksumContent computes the checksum of document content.
// It is a pure function of the content: two documents with identical
// content have identical checksums.
func ChecksumContent(content string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentType classifies a document within the project hierarchy.
type DocumentType string

const (
	DocumentTypeVision        DocumentType = "vision"
	DocumentTypeADR           DocumentType = "adr"
	DocumentTypePRD           DocumentType = "prd"
	DocumentTypeEpic          DocumentType = "epic"
	DocumentTypeFeature       DocumentType = "feature"
	DocumentTypeTask          DocumentType = "task"
	DocumentTypeCode          DocumentType = "code"
	DocumentTypeTest          DocumentType = "test"
	DocumentTypeDocumentation DocumentType = "documentation"
)

// DocumentTypes lists every valid document type.
var DocumentTypes = []DocumentType{
	DocumentTypeVision,
	DocumentTypeADR,
	DocumentTypePRD,
	DocumentTypeEpic,
	DocumentTypeFeature,
	DocumentTypeTask,
	DocumentTypeCode,
	DocumentTypeTest,
	DocumentTypeDocumentation,
}

// Document is a typed unit of project content.
// Keywords may contain duplicates in stored form; scoring treats them as a set.
type Document struct {
	Id                   string
	Type                 DocumentType
	Title                string
	Content              string
	Keywords             []string
	Status               string
	Priority             string
	Author               string
	ProjectId            string
	ParentDocumentId     string
	Dependencies         []string
	RelatedDocuments     []string
	Checksum             string // Derived from Content, recomputed on any content change
	CompletionPercentage int
	Metadata             map[string]string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// RelationshipType classifies an edge between two documents.
// Sub-kinds such as "references" or "derives_from" are not separate types;
// they are carried as the generation method in the relationship metadata.
type RelationshipType string

const (
	RelationshipRelatesTo RelationshipType = "relates_to"
	RelationshipGenerates RelationshipType = "generates"
)

// GenerationMethod records which heuristic produced a relationship edge.
type GenerationMethod string

const (
	MethodTypeHierarchy    GenerationMethod = "type_hierarchy"
	MethodKeywordAnalysis  GenerationMethod = "keyword_analysis"
	MethodContentReference GenerationMethod = "content_reference"
	MethodWorkflowRule     GenerationMethod = "workflow_rule"
)

// MetadataGenerationMethod is the metadata key holding the GenerationMethod.
const MetadataGenerationMethod = "generation_method"

// MetadataSourceDocumentId is the metadata key linking a generated document
// back to the document whose workflow automation created it.
const MetadataSourceDocumentId = "source_document_id"

// Relationship is a typed, weighted edge between two documents.
//
// Strength is part of the stored contract and lies in [0,1] after clamping.
type Relationship struct {
	Id               ID
	SourceDocumentId string
	TargetDocumentId string
	Type             RelationshipType
	Strength         float64
	AutoGenerated    bool // Auto-generated edges are replaced wholesale on regeneration
	Metadata         map[string]string
	CreatedAt        time.Time
}

// RelationshipID derives the deterministic ID for an edge.
// Regenerating the same edge set therefore produces the same IDs.
func RelationshipID(source, target string, typ RelationshipType, method GenerationMethod) ID {
	return IDFromContent("(" + source + "," + target + "," + string(typ) + "," + string(method) + ")")
}

// Method returns the generation method recorded in the edge metadata.
func (r *Relationship) Method() GenerationMethod {
	return GenerationMethod(r.Metadata[MetadataGenerationMethod])
}

// WorkflowState tracks a document's position in its workflow.
// There is at most one state per document.
type WorkflowState struct {
	DocumentId         string
	WorkflowName       string
	CurrentStage       string
	StagesCompleted    []string // Append-only history of prior current stages
	NextStages         []string // Reachable stages from CurrentStage, cached from the definition
	AutoTransitions    bool
	RequiresApproval   bool
	GeneratedArtifacts []string
	WorkflowResults    map[string]string // Merged on each advance
	StartedAt          time.Time
	UpdatedAt          time.Time
}

// SearchResult pairs a document with its relevance score.
type SearchResult struct {
	Document *Document
	Score    float64
}
