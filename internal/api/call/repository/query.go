package callRepository

const callLogColumns = `
	id,
	call_id,
	application_id,
	phone_number,
	status,
	started_at,
	ended_at,
	duration_seconds,
	cost_total,
	cost_breakdown,
	transcript,
	summary,
	created_at,
	updated_at
`

const queryCreateCallLog = `
	INSERT INTO call_logs (
		id,
		call_id,
		application_id,
		phone_number,
		status,
		started_at,
		transcript,
		created_at,
		updated_at
	) VALUES (
		:id,
		:call_id,
		:application_id,
		:phone_number,
		:status,
		:started_at,
		:transcript,
		:created_at,
		:updated_at
	)
`

const queryGetCallLogByCallID = `
	SELECT ` + callLogColumns + `
	FROM call_logs
	WHERE call_id = :call_id
`

const queryLinkApplication = `
	UPDATE call_logs
	SET application_id = :application_id,
		updated_at = :updated_at
	WHERE call_id = :call_id
	  AND application_id IS NULL
`

const queryGetCallLogsByApplicationID = `
	SELECT ` + callLogColumns + `
	FROM call_logs
	WHERE application_id = :application_id
	ORDER BY created_at DESC
`

const queryListCallLogs = `
	SELECT ` + callLogColumns + `
	FROM call_logs
	ORDER BY created_at DESC
	LIMIT :limit
`

const queryDeleteCallLog = `
	DELETE FROM call_logs
	WHERE call_id = :call_id
`
