package heygen

import (
	"encoding/json"
	"strings"
)

type generateRequest struct {
	VideoInputs []videoInput `json:"video_inputs"`
	Dimension   dimension    `json:"dimension"`
	Test        bool         `json:"test"`
	Caption     bool         `json:"caption"`
}

type videoInput struct {
	Character character `json:"character"`
	Voice     voice     `json:"voice"`
}

type character struct {
	Type     string `json:"type"`
	AvatarID string `json:"avatar_id"`
}

type voice struct {
	Type      string `json:"type"`
	InputText string `json:"input_text"`
	VoiceID   string `json:"voice_id"`
}

type dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type generateResponse struct {
	Error apiError `json:"error"`
	Data  *struct {
		VideoID string `json:"video_id"`
	} `json:"data"`
}

type statusResponse struct {
	Code int `json:"code"`
	Data *struct {
		ID           string   `json:"id"`
		Status       string   `json:"status"`
		VideoURL     string   `json:"video_url"`
		ThumbnailURL string   `json:"thumbnail_url"`
		Duration     float64  `json:"duration"`
		Error        apiError `json:"error"`
	} `json:"data"`
	Message string `json:"message"`
}

// apiError accepts both the plain string and the {"code","message"} object
// forms HeyGen uses for errors.
type apiError struct {
	Code    string
	Message string
}

func (e *apiError) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Message = s
		return nil
	}
	var obj struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
		Detail  string          `json:"detail"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	e.Code = strings.Trim(string(obj.Code), `"`)
	e.Message = obj.Message
	if e.Message == "" {
		e.Message = obj.Detail
	}
	return nil
}

func (e apiError) String() string {
	switch {
	case e.Message != "" && e.Code != "":
		return e.Code + ": " + e.Message
	case e.Message != "":
		return e.Message
	default:
		return e.Code
	}
}
