// Copyright 2025 Serica Labs
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


package storage

import (
	"github.com/sericalabs/serica/core"
)

// MarshalIngestionJob serializes an IngestionJob to bytes.
func MarshalIngestionJob(job *core.IngestionJob) []byte {
	buf := make([]byte, core.IngestionJobMUS.Size(*job))
	core.IngestionJobMUS.Marshal(*job, buf)
	return buf
}

// UnmarshalIngestionJob deserializes an IngestionJob from bytes.
func UnmarshalIngestionJob(data []byte) (*core.IngestionJob, error) {
	job, _, err := core.IngestionJobMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
