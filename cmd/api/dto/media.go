package dto

type MediaUploadResponseDTO struct {
	URL         string `json:"url" example:"/api/media/1718000000000-ab12cd.png"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type MediaItemDTO struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

type MediaListDTO struct {
	Files []MediaItemDTO `json:"files"`
}

// MediaDebugItemDTO 는 공백이나 비 ASCII 문자가 섞인 객체 이름을 진단하기 위한 정보다.
type MediaDebugItemDTO struct {
	Filename  string `json:"filename"`
	Escaped   string `json:"escaped"`
	Hex       string `json:"hex"`
	CharCodes []int  `json:"char_codes"`
}

type MediaDebugDTO struct {
	Files []MediaDebugItemDTO `json:"files"`
}
