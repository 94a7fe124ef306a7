package models

type Tag struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
