package smsRepository

const smsMessageColumns = `
	id,
	phone_number,
	direction,
	body,
	message_sid,
	application_id,
	created_at
`

const queryCreateSMSMessage = `
	INSERT INTO sms_messages (
		id,
		phone_number,
		direction,
		body,
		message_sid,
		application_id,
		created_at
	) VALUES (
		:id,
		:phone_number,
		:direction,
		:body,
		:message_sid,
		:application_id,
		:created_at
	)
`

const queryGetSMSMessagesByPhone = `
	SELECT ` + smsMessageColumns + `
	FROM sms_messages
	WHERE phone_number = :phone_number
	ORDER BY created_at ASC
	LIMIT :limit
`
