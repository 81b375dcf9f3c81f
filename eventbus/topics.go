package eventbus

// 기능별 기본 토픽 이름은 여기서 한 번에 관리한다.
var (
	TopicImportEvents = NewTopic("portfolio.import.events")
)

var AllTopics = []Topic{
	TopicImportEvents,
}
