package app

// Event names for frontend communication.
const (
	EventCaption      = "caption"
	EventStatus       = "status"
	EventOpacity      = "opacity"
	EventSettingsOpen = "settings-open"
)

// Status messages shown in the overlay.
const (
	statusInit        = "初始化中..."
	statusSpeechLoad  = "正在加载语音模型 (%d%%)"
	statusSpeechReady = "语音模型加载完毕"
	statusSpeechFail  = "语音模型加载失败: %v"
	statusAudioFail   = "麦克风启动失败: %v"
	statusDownloading = "正在下载 %s 翻译模型..."
	confirmLangChange = "切换语言到 %s 需要下载新模型，可能会卡顿几分钟，确定吗？"
)
