package models

// ChatRoom — комната обращения покупателя к поддержке.
type ChatRoom struct {
	ID         int64  `json:"id"`
	Status     string `json:"status"`
	AccountID  int64  `json:"accountId"`
	EmployeeID int64  `json:"employeeId,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

// ChatMessage — сообщение в комнате; тип TEXT либо FILE.
type ChatMessage struct {
	ID          int64  `json:"id"`
	RoomID      int64  `json:"roomId"`
	Message     string `json:"message"`
	SenderType  string `json:"senderType"`
	SenderID    int64  `json:"senderId"`
	SenderName  string `json:"senderName"`
	MessageType string `json:"messageType"`
	FileURL     string `json:"fileUrl,omitempty"`
	IsRead      bool   `json:"isRead"`
	CreatedAt   string `json:"createdAt"`
}

type CreateChatRoomRequest struct {
	AccountID int64 `json:"accountId"`
}

type SendMessageRequest struct {
	RoomID      int64  `json:"roomId"`
	Message     string `json:"message"`
	SenderType  string `json:"senderType"`
	SenderID    int64  `json:"senderId"`
	SenderName  string `json:"senderName"`
	MessageType string `json:"messageType"`
	FileURL     string `json:"fileUrl,omitempty"`
}

// RoomCount — счётчик открытых комнат.
type RoomCount struct {
	Count int64 `json:"count"`
}

// UploadedFile — результат загрузки файла (аватар, вложение чата).
type UploadedFile struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

// RecommendRequest — запрос AI-рекомендаций; внутренняя модель бэкенда
// непрозрачна, шлюз фиксирует только контракт запроса/ответа.
type RecommendRequest struct {
	AccountID int64  `json:"accountId"`
	Query     string `json:"query,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

type RecommendFeedbackRequest struct {
	AccountID int64  `json:"accountId"`
	ProductID int64  `json:"productId"`
	Action    string `json:"action"`
}
