package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thejerf/suture/v4"

	"portfolio/eventbus"
	"portfolio/events"
	"portfolio/internal/logger"
)

// supervisorSpec 는 suture 기본값과 같은 실패 한도를 쓰고, 이벤트는 공용 로거로 남긴다.
func supervisorSpec() suture.Spec {
	return suture.Spec{
		EventHook:        logSupervisorEvent,
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		Timeout:          10 * time.Second,
	}
}

func logSupervisorEvent(e suture.Event) {
	fields := logger.Fields(e.Map())
	switch e.Type() {
	case suture.EventTypeServicePanic, suture.EventTypeServiceTerminate:
		logger.ErrorWithFields(e.String(), fields)
	case suture.EventTypeBackoff:
		logger.WarnWithFields(e.String(), fields)
	default:
		logger.InfoWithFields(e.String(), fields)
	}
}

// newWorkerSupervisor 는 토픽마다 구독 서비스와 재주입 서비스를 하나씩 붙인 트리를 만든다.
func newWorkerSupervisor(bus eventbus.EventBus, groupID string, handler *ImportHandler) *suture.Supervisor {
	root := suture.New("portfolio-worker", supervisorSpec())
	root.Add(&importSubscriber{bus: bus, groupID: groupID, handler: handler})
	for _, topic := range eventbus.AllTopics {
		root.Add(&retryReinjector{bus: bus, groupID: reinjectorGroupID(groupID, topic), topic: topic})
	}
	return root
}

// reinjectorGroupID 예: portfolio-worker-retry-portfolio-import-events
func reinjectorGroupID(groupID string, topic eventbus.Topic) string {
	return groupID + "-retry-" + strings.ReplaceAll(topic.Base(), ".", "-")
}

type importSubscriber struct {
	bus     eventbus.EventBus
	groupID string
	handler *ImportHandler
}

func (s *importSubscriber) Serve(ctx context.Context) error {
	err := eventbus.SubscribeJSON[events.ImportRequestedEvent](ctx, s.bus, s.groupID, eventbus.TopicImportEvents, s.handler.Handle)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("import subscriber: %w", err)
	}
	// 구독이 에러 없이 끝나도 suture 가 다시 띄운다.
	return nil
}

func (s *importSubscriber) String() string {
	return "import-subscriber"
}

type retryReinjector struct {
	bus     eventbus.EventBus
	groupID string
	topic   eventbus.Topic
}

func (r *retryReinjector) Serve(ctx context.Context) error {
	err := r.bus.StartRetryReinjector(ctx, r.groupID, r.topic)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("retry reinjector %s: %w", r.topic.Base(), err)
	}
	return nil
}

func (r *retryReinjector) String() string {
	return "retry-reinjector:" + r.topic.Base()
}
