package user

type SyncRequest struct {
	DisplayName string `json:"displayName" binding:"omitempty,min=2,max=100"`
}

type UpdateMeRequest struct {
	DisplayName string `json:"displayName" binding:"required,min=2,max=100"`
}
