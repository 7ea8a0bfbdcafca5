package entity

// MaxReportedErrors bounds the number of error messages carried by a batch
// report. The full failed-row-number set is always retained; only the
// human-readable messages are sampled to keep payloads small.
const MaxReportedErrors = 5

// BatchReport summarizes one CSV batch ingestion run. It is ephemeral:
// produced by the ingestion task, surfaced through the task status
// endpoint, never persisted.
type BatchReport struct {
	AllRows      int      `json:"all_rows"`
	ImportedRows int      `json:"successfully_imported_rows"`
	FailedRows   []int    `json:"failed_rows"`
	Errors       []string `json:"encountered_errors"`
}

// NewBatchReport creates an empty report
func NewBatchReport() *BatchReport {
	return &BatchReport{
		FailedRows: []int{},
		Errors:     []string{},
	}
}

// RecordSuccess counts one successfully imported row
func (r *BatchReport) RecordSuccess() {
	r.AllRows++
	r.ImportedRows++
}

// RecordFailure marks a 1-indexed row as failed and samples its error message
func (r *BatchReport) RecordFailure(rowNum int, err error) {
	r.AllRows++
	r.FailedRows = append(r.FailedRows, rowNum)
	if len(r.Errors) < MaxReportedErrors {
		r.Errors = append(r.Errors, err.Error())
	}
}
