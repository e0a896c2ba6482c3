package dto

type AddSubtaskRequest struct {
	Title string `json:"title"`
}

type UpdateSubtaskRequest struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type AddCommentRequest struct {
	Body string `json:"body"`
}

type AddAttachmentRequest struct {
	Filename string `json:"filename"`
	FileURL  string `json:"file_url"`
}
