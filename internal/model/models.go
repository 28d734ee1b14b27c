package model

// All lists every table AutoMigrate manages, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Course{},
		&WeeklyPlan{},
		&WeeklyExecution{},
		&DeviationLog{},
		&Upload{},
		&UploadText{},
		&UploadChunk{},
		&ExecutionAudit{},
	}
}
