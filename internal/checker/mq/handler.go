// Package mq 는 Valkey Streams 로 들어오는 판정 요청을 처리하고 응답 스트림에 결과를 발행한다.
package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/answer"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/checker/service"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/mq"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/mqmsg"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/telemetry"
)

// Validator: 판정 기능
type Validator interface {
	Validate(ctx context.Context, req service.Request) (answer.MatchResult, error)
}

// ReplyPublisher: 응답 스트림 발행기
type ReplyPublisher interface {
	Publish(ctx context.Context, values map[string]string) (string, error)
}

// RequestHandler: 요청 메시지 하나를 판정하고 응답을 발행한다.
type RequestHandler struct {
	validator Validator
	replies   ReplyPublisher
	logger    *slog.Logger
}

// NewRequestHandler 는 RequestHandler 를 만든다.
func NewRequestHandler(validator Validator, replies ReplyPublisher, logger *slog.Logger) *RequestHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestHandler{validator: validator, replies: replies, logger: logger}
}

// Handle: mq.Handler 구현. 응답 발행에 실패한 경우에만 에러를 반환해 메시지를 PEL 에 남긴다.
func (h *RequestHandler) Handle(ctx context.Context, msg mq.XMessage) error {
	req, err := mqmsg.ParseValidateRequest(msg.Values)
	if err != nil {
		if errors.Is(err, mqmsg.ErrMissingRequestID) || errors.Is(err, mqmsg.ErrEmptyFields) {
			h.logger.WarnContext(ctx, "validate_request_dropped", "id", msg.ID, "err", err)
			return nil
		}
		return h.publish(ctx, mqmsg.NewErrorReply(msg.Values["requestId"], err))
	}

	result, err := h.validator.Validate(ctx, service.Request{
		UserAnswer:    req.UserAnswer,
		CorrectAnswer: req.CorrectAnswer,
		Language:      req.Language,
		AllowSynonyms: req.AllowSynonyms,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "validate_request_failed", "request", req.String(), "err", err)
		return h.publish(ctx, mqmsg.NewErrorReply(req.RequestID, err))
	}

	return h.publish(ctx, mqmsg.ValidateReply{
		RequestID:      req.RequestID,
		IsCorrect:      result.IsCorrect,
		MissingAccents: result.MissingAccents,
	})
}

func (h *RequestHandler) publish(ctx context.Context, reply mqmsg.ValidateReply) error {
	values := reply.ToStreamValues()
	telemetry.InjectContext(ctx, telemetry.MapCarrier(values))
	if _, err := h.replies.Publish(ctx, values); err != nil {
		return fmt.Errorf("publish reply failed requestId=%s: %w", reply.RequestID, err)
	}
	return nil
}
