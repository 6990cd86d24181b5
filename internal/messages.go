package internal

// Message keys for user-facing output.
const (
	MsgResolving     = "resolving"
	MsgFinalLink     = "final_link"
	MsgDownloadingTo = "downloading_to"
	MsgCompleted     = "completed"
	MsgUnzipped      = "unzipped"
	MsgExtractSkip   = "extract_skipped"
	MsgFailed        = "failed"
)

// Messages resolves user-facing text for a configured language.
type Messages struct {
	language string
	texts    map[string]map[string]string
}

// NewMessages creates a message catalog for the given language.
// Unknown languages fall back to English.
func NewMessages(language string) *Messages {
	m := &Messages{
		language: language,
		texts: map[string]map[string]string{
			"en": {
				MsgResolving:     "Resolving direct link via gateway...",
				MsgFinalLink:     "Final direct link: %s",
				MsgDownloadingTo: "Downloading to %s",
				MsgCompleted:     "Completed → %s",
				MsgUnzipped:      "Unzipped → %s",
				MsgExtractSkip:   "Extraction skipped, archive kept at %s",
				MsgFailed:        "Failed: %v",
			},
			"zh": {
				MsgResolving:     "正在通过网关解析直链...",
				MsgFinalLink:     "最终直链: %s",
				MsgDownloadingTo: "正在下载到 %s",
				MsgCompleted:     "下载完成 → %s",
				MsgUnzipped:      "解压完成 → %s",
				MsgExtractSkip:   "已跳过解压，压缩包保存在 %s",
				MsgFailed:        "失败: %v",
			},
		},
	}

	if _, ok := m.texts[language]; !ok {
		m.language = "en"
	}

	return m
}

// Get returns the localized text for a key, falling back to English and
// finally to the key itself.
func (m *Messages) Get(key string) string {
	if texts, ok := m.texts[m.language]; ok {
		if text, found := texts[key]; found {
			return text
		}
	}

	if text, found := m.texts["en"][key]; found {
		return text
	}

	return key
}

// Language returns the effective language of the catalog.
func (m *Messages) Language() string {
	return m.language
}
