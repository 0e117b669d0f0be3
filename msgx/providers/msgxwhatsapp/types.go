package msgxwhatsapp

// WhatsApp Cloud API wire structures. Only what the bot sends and
// receives: text, image, interactive buttons and lists.

// ---------- outbound ----------

type waMessage struct {
	MessagingProduct string           `json:"messaging_product"`
	RecipientType    string           `json:"recipient_type"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             *waText          `json:"text,omitempty"`
	Image            *waOutboundMedia `json:"image,omitempty"`
	Interactive      *waInteractive   `json:"interactive,omitempty"`
}

type waText struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url,omitempty"`
}

type waOutboundMedia struct {
	ID      string `json:"id,omitempty"`
	Link    string `json:"link,omitempty"`
	Caption string `json:"caption,omitempty"`
}

type waInteractive struct {
	Type   string               `json:"type"` // "button" or "list"
	Body   waInteractiveBody    `json:"body"`
	Action *waInteractiveAction `json:"action"`
}

type waInteractiveBody struct {
	Text string `json:"text"`
}

type waInteractiveAction struct {
	Buttons  []waButton  `json:"buttons,omitempty"`
	Button   string      `json:"button,omitempty"`
	Sections []waSection `json:"sections,omitempty"`
}

type waButton struct {
	Type  string        `json:"type"` // always "reply"
	Reply waButtonReply `json:"reply"`
}

type waButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type waSection struct {
	Title string  `json:"title,omitempty"`
	Rows  []waRow `json:"rows"`
}

type waRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type waSendResponse struct {
	MessagingProduct string        `json:"messaging_product"`
	Contacts         []waContact   `json:"contacts"`
	Messages         []waMessageID `json:"messages"`
}

type waContact struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

type waMessageID struct {
	ID string `json:"id"`
}

type waErrorResponse struct {
	Error waError `json:"error"`
}

type waError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode"`
	FbtraceID    string `json:"fbtrace_id"`
}

// ---------- webhook ----------

type waWebhookPayload struct {
	Object string           `json:"object"`
	Entry  []waWebhookEntry `json:"entry"`
}

type waWebhookEntry struct {
	ID      string            `json:"id"`
	Changes []waWebhookChange `json:"changes"`
}

type waWebhookChange struct {
	Value waWebhookValue `json:"value"`
	Field string         `json:"field"`
}

type waWebhookValue struct {
	MessagingProduct string              `json:"messaging_product"`
	Metadata         waMetadata          `json:"metadata"`
	Messages         []waIncomingMessage `json:"messages,omitempty"`
	Statuses         []waStatusUpdate    `json:"statuses,omitempty"`
}

type waMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type waIncomingMessage struct {
	From        string                 `json:"from"`
	ID          string                 `json:"id"`
	Timestamp   string                 `json:"timestamp"`
	Type        string                 `json:"type"`
	Text        *waIncomingText        `json:"text,omitempty"`
	Image       *waIncomingMedia       `json:"image,omitempty"`
	Document    *waIncomingMedia       `json:"document,omitempty"`
	Interactive *waIncomingInteractive `json:"interactive,omitempty"`
	Button      *waIncomingButton      `json:"button,omitempty"`
}

type waIncomingText struct {
	Body string `json:"body"`
}

type waIncomingMedia struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Sha256   string `json:"sha256"`
	Caption  string `json:"caption,omitempty"`
}

type waIncomingInteractive struct {
	Type        string   `json:"type"` // "button_reply" or "list_reply"
	ButtonReply *waReply `json:"button_reply,omitempty"`
	ListReply   *waReply `json:"list_reply,omitempty"`
}

type waReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// waIncomingButton is the legacy template quick-reply shape
type waIncomingButton struct {
	Payload string `json:"payload"`
	Text    string `json:"text"`
}

type waStatusUpdate struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// ---------- media ----------

type waMediaInfo struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	Sha256   string `json:"sha256"`
	FileSize int64  `json:"file_size"`
}
