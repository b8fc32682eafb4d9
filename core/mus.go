package core

import (
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted entities. The entity set is
// small and stable, so the serializers are maintained by hand instead of
// through code generation.
var (
	IDMUS            = idMUS{}
	DocumentMUS      = documentMUS{}
	RelationshipMUS  = relationshipMUS{}
	WorkflowStateMUS = workflowStateMUS{}

	stringSliceMUS = ord.NewSliceSer[string](ord.String)
	stringMapMUS   = ord.NewMapSer[string, string](ord.String, ord.String)
	timeMUS        = raw.TimeUnixMicro
)

var (
	_ mus.Serializer[ID]            = idMUS{}
	_ mus.Serializer[Document]      = documentMUS{}
	_ mus.Serializer[Relationship]  = relationshipMUS{}
	_ mus.Serializer[WorkflowState] = workflowStateMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type documentMUS struct{}

func (documentMUS) Marshal(d Document, bs []byte) (n int) {
	n = ord.String.Marshal(d.Id, bs)
	n += ord.String.Marshal(string(d.Type), bs[n:])
	n += ord.String.Marshal(d.Title, bs[n:])
	n += ord.String.Marshal(d.Content, bs[n:])
	n += stringSliceMUS.Marshal(d.Keywords, bs[n:])
	n += ord.String.Marshal(d.Status, bs[n:])
	n += ord.String.Marshal(d.Priority, bs[n:])
	n += ord.String.Marshal(d.Author, bs[n:])
	n += ord.String.Marshal(d.ProjectId, bs[n:])
	n += ord.String.Marshal(d.ParentDocumentId, bs[n:])
	n += stringSliceMUS.Marshal(d.Dependencies, bs[n:])
	n += stringSliceMUS.Marshal(d.RelatedDocuments, bs[n:])
	n += ord.String.Marshal(d.Checksum, bs[n:])
	n += varint.Int.Marshal(d.CompletionPercentage, bs[n:])
	n += stringMapMUS.Marshal(d.Metadata, bs[n:])
	n += timeMUS.Marshal(d.CreatedAt, bs[n:])
	n += timeMUS.Marshal(d.UpdatedAt, bs[n:])
	return
}

func (documentMUS) Unmarshal(bs []byte) (d Document, n int, err error) {
	var n1 int
	if d.Id, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	var typ string
	if typ, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	d.Type = DocumentType(typ)
	n += n1
	if d.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Keywords, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Status, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Priority, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Author, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.ProjectId, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.ParentDocumentId, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Dependencies, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.RelatedDocuments, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Checksum, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.CompletionPercentage, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Metadata, n1, err = stringMapMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	return
}

func (documentMUS) Size(d Document) (size int) {
	size = ord.String.Size(d.Id)
	size += ord.String.Size(string(d.Type))
	size += ord.String.Size(d.Title)
	size += ord.String.Size(d.Content)
	size += stringSliceMUS.Size(d.Keywords)
	size += ord.String.Size(d.Status)
	size += ord.String.Size(d.Priority)
	size += ord.String.Size(d.Author)
	size += ord.String.Size(d.ProjectId)
	size += ord.String.Size(d.ParentDocumentId)
	size += stringSliceMUS.Size(d.Dependencies)
	size += stringSliceMUS.Size(d.RelatedDocuments)
	size += ord.String.Size(d.Checksum)
	size += varint.Int.Size(d.CompletionPercentage)
	size += stringMapMUS.Size(d.Metadata)
	size += timeMUS.Size(d.CreatedAt)
	size += timeMUS.Size(d.UpdatedAt)
	return
}

func (documentMUS) Skip(bs []byte) (n int, err error) {
	skips := []func([]byte) (int, error){
		ord.String.Skip, ord.String.Skip, ord.String.Skip, ord.String.Skip,
		stringSliceMUS.Skip,
		ord.String.Skip, ord.String.Skip, ord.String.Skip, ord.String.Skip, ord.String.Skip,
		stringSliceMUS.Skip, stringSliceMUS.Skip,
		ord.String.Skip,
		varint.Int.Skip,
		stringMapMUS.Skip,
		timeMUS.Skip, timeMUS.Skip,
	}
	var n1 int
	for _, skip := range skips {
		if n1, err = skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return
}

type relationshipMUS struct{}

func (relationshipMUS) Marshal(r Relationship, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += ord.String.Marshal(r.SourceDocumentId, bs[n:])
	n += ord.String.Marshal(r.TargetDocumentId, bs[n:])
	n += ord.String.Marshal(string(r.Type), bs[n:])
	n += raw.Float64.Marshal(r.Strength, bs[n:])
	n += ord.Bool.Marshal(r.AutoGenerated, bs[n:])
	n += stringMapMUS.Marshal(r.Metadata, bs[n:])
	n += timeMUS.Marshal(r.CreatedAt, bs[n:])
	return
}

func (relationshipMUS) Unmarshal(bs []byte) (r Relationship, n int, err error) {
	var n1 int
	if r.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if r.SourceDocumentId, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.TargetDocumentId, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	var typ string
	if typ, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	r.Type = RelationshipType(typ)
	n += n1
	if r.Strength, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.AutoGenerated, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Metadata, n1, err = stringMapMUS.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	return
}

func (relationshipMUS) Size(r Relationship) (size int) {
	size = IDMUS.Size(r.Id)
	size += ord.String.Size(r.SourceDocumentId)
	size += ord.String.Size(r.TargetDocumentId)
	size += ord.String.Size(string(r.Type))
	size += raw.Float64.Size(r.Strength)
	size += ord.Bool.Size(r.AutoGenerated)
	size += stringMapMUS.Size(r.Metadata)
	size += timeMUS.Size(r.CreatedAt)
	return
}

func (relationshipMUS) Skip(bs []byte) (n int, err error) {
	skips := []func([]byte) (int, error){
		IDMUS.Skip,
		ord.String.Skip, ord.String.Skip, ord.String.Skip,
		raw.Float64.Skip,
		ord.Bool.Skip,
		stringMapMUS.Skip,
		timeMUS.Skip,
	}
	var n1 int
	for _, skip := range skips {
		if n1, err = skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return
}

type workflowStateMUS struct{}

func (workflowStateMUS) Marshal(s WorkflowState, bs []byte) (n int) {
	n = ord.String.Marshal(s.DocumentId, bs)
	n += ord.String.Marshal(s.WorkflowName, bs[n:])
	n += ord.String.Marshal(s.CurrentStage, bs[n:])
	n += stringSliceMUS.Marshal(s.StagesCompleted, bs[n:])
	n += stringSliceMUS.Marshal(s.NextStages, bs[n:])
	n += ord.Bool.Marshal(s.AutoTransitions, bs[n:])
	n += ord.Bool.Marshal(s.RequiresApproval, bs[n:])
	n += stringSliceMUS.Marshal(s.GeneratedArtifacts, bs[n:])
	n += stringMapMUS.Marshal(s.WorkflowResults, bs[n:])
	n += timeMUS.Marshal(s.StartedAt, bs[n:])
	n += timeMUS.Marshal(s.UpdatedAt, bs[n:])
	return
}

func (workflowStateMUS) Unmarshal(bs []byte) (s WorkflowState, n int, err error) {
	var n1 int
	if s.DocumentId, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if s.WorkflowName, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	if s.CurrentStage, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	if s.StagesCompleted, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	if s.NextStages, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	if s.AutoTransitions, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	if s.RequiresApproval, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	if s.GeneratedArtifacts, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	if s.WorkflowResults, n1, err = stringMapMUS.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	if s.StartedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	if s.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	return
}

func (workflowStateMUS) Size(s WorkflowState) (size int) {
	size = ord.String.Size(s.DocumentId)
	size += ord.String.Size(s.WorkflowName)
	size += ord.String.Size(s.CurrentStage)
	size += stringSliceMUS.Size(s.StagesCompleted)
	size += stringSliceMUS.Size(s.NextStages)
	size += ord.Bool.Size(s.AutoTransitions)
	size += ord.Bool.Size(s.RequiresApproval)
	size += stringSliceMUS.Size(s.GeneratedArtifacts)
	size += stringMapMUS.Size(s.WorkflowResults)
	size += timeMUS.Size(s.StartedAt)
	size += timeMUS.Size(s.UpdatedAt)
	return
}

func (workflowStateMUS) Skip(bs []byte) (n int, err error) {
	skips := []func([]byte) (int, error){
		ord.String.Skip, ord.String.Skip, ord.String.Skip,
		stringSliceMUS.Skip, stringSliceMUS.Skip,
		ord.Bool.Skip, ord.Bool.Skip,
		stringSliceMUS.Skip,
		stringMapMUS.Skip,
		timeMUS.Skip, timeMUS.Skip,
	}
	var n1 int
	for _, skip := range skips {
		if n1, err = skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return
}
