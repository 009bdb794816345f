package model

type Doctor struct {
	ID         int64  `json:"id" db:"id"`
	UserID     int64  `json:"userId" db:"user_id"`
	Department string `json:"department" db:"department"`
	FullName   string `json:"fullName" db:"full_name"`
	Username   string `json:"username" db:"username"`
	Timestamps

	PatientIDs []int64 `json:"patientIds" db:"-"`
}

type UpdateDoctorRequest struct {
	Department string `json:"department" binding:"required,notblank,max=100"`
}
