package applicationRepository

const applicationColumns = `
	id, user_id, first_name, last_name, full_legal_name, email, phone,
	date_of_birth, marital_status, what_looking_to_do, property_address,
	property_type, property_value, mortgage_balance, property_use,
	loan_amount_requested, loan_purpose, employment_type, annual_income,
	other_income_sources, current_bank, current_step, completed,
	created_at, updated_at
`

const (
	queryCreateApplication = `
		INSERT INTO applications (
			id, user_id, first_name, last_name, full_legal_name, email, phone,
			date_of_birth, marital_status, what_looking_to_do, property_address,
			property_type, property_value, mortgage_balance, property_use,
			loan_amount_requested, loan_purpose, employment_type, annual_income,
			other_income_sources, current_bank, current_step, completed,
			created_at, updated_at
		) VALUES (
			:id, :user_id, :first_name, :last_name, :full_legal_name, :email, :phone,
			:date_of_birth, :marital_status, :what_looking_to_do, :property_address,
			:property_type, :property_value, :mortgage_balance, :property_use,
			:loan_amount_requested, :loan_purpose, :employment_type, :annual_income,
			:other_income_sources, :current_bank, :current_step, :completed,
			:created_at, :updated_at
		)
	`

	queryGetApplicationByID = `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE id = :id
	`

	queryGetLatestApplicationByPhone = `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE phone = :phone
		ORDER BY created_at DESC
		LIMIT 1
	`

	queryDeleteApplication = `
		DELETE FROM applications
		WHERE id = :id
	`

	queryListApplications = `
		SELECT ` + applicationColumns + `
		FROM applications
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryGetApplicationsByCompleted = `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE completed = :completed
		ORDER BY created_at DESC
	`
)
