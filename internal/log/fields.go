package log

// Common field names for structured logging.
const (
	FieldComponent     = "component"
	FieldRunID         = "run_id"
	FieldStage         = "stage"
	FieldState         = "state"
	FieldError         = "error"
	FieldDuration      = "duration_ms"
	FieldRecordCount   = "record_count"
	FieldRemovedCount  = "removed_count"
	FieldNullCount     = "null_count"
	FieldDailyRows     = "daily_rows"
	FieldCategoryRows  = "category_rows"
	FieldInputPath     = "input_path"
	FieldOutputDir     = "output_dir"
	FieldSourceBackend = "source_backend"
	FieldSinkBackend   = "sink_backend"
	FieldSheetsRef     = "sheets_ref"
	FieldExchange      = "exchange"
	FieldQueue         = "queue"
)

// Components defines standard component names.
const (
	ComponentApp      = "app"
	ComponentPipeline = "pipeline"
	ComponentSource   = "source"
	ComponentSink     = "sink"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentSheets   = "sheets"
)
