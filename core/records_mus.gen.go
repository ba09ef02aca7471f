// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var JobStatusMUS = jobStatusMUS{}

type jobStatusMUS struct{}

func (s jobStatusMUS) Marshal(v JobStatus, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s jobStatusMUS) Unmarshal(bs []byte) (v JobStatus, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = JobStatus(tmp)
	return
}

func (s jobStatusMUS) Size(v JobStatus) (size int) {
	return varint.Int.Size(int(v))
}

func (s jobStatusMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var IngestOutcomeMUS = ingestOutcomeMUS{}

type ingestOutcomeMUS struct{}

func (s ingestOutcomeMUS) Marshal(v IngestOutcome, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s ingestOutcomeMUS) Unmarshal(bs []byte) (v IngestOutcome, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = IngestOutcome(tmp)
	return
}

func (s ingestOutcomeMUS) Size(v IngestOutcome) (size int) {
	return varint.Int.Size(int(v))
}

func (s ingestOutcomeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var IngestionJobMUS = ingestionJobMUS{}

type ingestionJobMUS struct{}

func (s ingestionJobMUS) Marshal(v IngestionJob, bs []byte) (n int) {
	n = varint.Int64.Marshal(v.DocumentID, bs)
	n += JobStatusMUS.Marshal(v.Status, bs[n:])
	n += IngestOutcomeMUS.Marshal(v.Outcome, bs[n:])
	n += varint.Int.Marshal(v.Sentences, bs[n:])
	n += varint.Int.Marshal(v.Batches, bs[n:])
	n += ord.String.Marshal(v.Error, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.StartedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.FinishedAt, bs[n:])
}

func (s ingestionJobMUS) Unmarshal(bs []byte) (v IngestionJob, n int, err error) {
	v.DocumentID, n, err = varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Status, n1, err = JobStatusMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Outcome, n1, err = IngestOutcomeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Sentences, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Batches, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Error, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StartedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FinishedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s ingestionJobMUS) Size(v IngestionJob) (size int) {
	size = varint.Int64.Size(v.DocumentID)
	size += JobStatusMUS.Size(v.Status)
	size += IngestOutcomeMUS.Size(v.Outcome)
	size += varint.Int.Size(v.Sentences)
	size += varint.Int.Size(v.Batches)
	size += ord.String.Size(v.Error)
	size += raw.TimeUnixMicro.Size(v.StartedAt)
	return size + raw.TimeUnixMicro.Size(v.FinishedAt)
}

func (s ingestionJobMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Int64.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = JobStatusMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = IngestOutcomeMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
