package analyticsRepository

const queryTotalApplications = `
	SELECT COUNT(*) AS total
	FROM applications
	WHERE (CAST(:from_date AS timestamptz) IS NULL OR created_at >= :from_date)
`

const queryCompletionCounts = `
	SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE completed = true) AS completed
	FROM applications
	WHERE (CAST(:from_date AS timestamptz) IS NULL OR created_at >= :from_date)
`

const queryAverageCallDuration = `
	SELECT COALESCE(AVG(duration_seconds), 0) AS avg_duration
	FROM call_logs
	WHERE status = 'completed'
	  AND duration_seconds > 0
	  AND (CAST(:from_date AS timestamptz) IS NULL OR created_at >= :from_date)
`

const queryConversionCounts = `
	SELECT
		COUNT(DISTINCT a.id) AS total_with_calls,
		COUNT(DISTINCT a.id) FILTER (WHERE a.completed = true) AS completed_with_calls
	FROM applications a
	INNER JOIN call_logs c ON a.id = c.application_id
	WHERE (CAST(:from_date AS timestamptz) IS NULL OR a.created_at >= :from_date)
`

// Interval and format are validated against a fixed set before being
// spliced into this template.
const queryApplicationsOverTime = `
	SELECT
		TO_CHAR(DATE_TRUNC('%s', created_at), '%s') AS label,
		COUNT(*) AS applications,
		COUNT(*) FILTER (WHERE completed = true) AS completed
	FROM applications
	WHERE (CAST(:from_date AS timestamptz) IS NULL OR created_at >= :from_date)
	GROUP BY DATE_TRUNC('%s', created_at)
	ORDER BY DATE_TRUNC('%s', created_at)
`

const queryCallStatusCounts = `
	SELECT status, COUNT(*) AS count
	FROM call_logs
	WHERE (CAST(:from_date AS timestamptz) IS NULL OR created_at >= :from_date)
	GROUP BY status
	ORDER BY count DESC
`

const queryRecentActivity = `
	SELECT
		'application_created' AS type,
		a.id AS id,
		a.first_name || ' ' || a.last_name AS name,
		COALESCE(a.email, '') AS email,
		a.created_at AS timestamp,
		'Created new application' AS description
	FROM applications a

	UNION ALL

	SELECT
		'application_completed' AS type,
		a.id AS id,
		a.first_name || ' ' || a.last_name AS name,
		COALESCE(a.email, '') AS email,
		a.updated_at AS timestamp,
		'Completed application' AS description
	FROM applications a
	WHERE a.completed = true

	UNION ALL

	SELECT
		'call_completed' AS type,
		COALESCE(c.application_id, '') AS id,
		COALESCE(a.first_name || ' ' || a.last_name, 'Unknown caller') AS name,
		COALESCE(a.email, '') AS email,
		c.ended_at AS timestamp,
		'Completed voice call (' || ROUND(c.duration_seconds::decimal / 60, 1) || ' min)' AS description
	FROM call_logs c
	LEFT JOIN applications a ON c.application_id = a.id
	WHERE c.status = 'completed' AND c.ended_at IS NOT NULL

	ORDER BY timestamp DESC
	LIMIT :limit
`

const querySourceBreakdown = `
	SELECT
		CASE WHEN c.id IS NOT NULL THEN 'Voice' ELSE 'Web' END AS source,
		COUNT(DISTINCT a.id) AS count,
		COUNT(DISTINCT a.id) FILTER (WHERE a.completed = true) AS completed
	FROM applications a
	LEFT JOIN call_logs c ON a.id = c.application_id
	WHERE (CAST(:from_date AS timestamptz) IS NULL OR a.created_at >= :from_date)
	GROUP BY (c.id IS NOT NULL)
	ORDER BY count DESC
`

const queryStatusBreakdown = `
	SELECT
		CASE
			WHEN completed = true THEN 'Completed'
			WHEN current_step >= 2 THEN 'In Progress'
			ELSE 'Started'
		END AS status,
		COUNT(*) AS count
	FROM applications
	WHERE (CAST(:from_date AS timestamptz) IS NULL OR created_at >= :from_date)
	GROUP BY 1
	ORDER BY count DESC
`
