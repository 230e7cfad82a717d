// Package mocks provides testify mocks of the ports for application tests.
package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// MessagingGateway is a testify mock of ports.MessagingGateway. Return values may be
// given as functions with the method's signature to compute them per call.
type MessagingGateway struct {
	mock.Mock

	mu     sync.Mutex
	nextID int
	sent   []sentMessage
}

type sentMessage struct {
	chatID int64
	msg    ports.Message
}

var _ ports.MessagingGateway = (*MessagingGateway)(nil)

// NewMessagingGateway returns a mock that accepts every call: sends return fresh
// message refs in the target chat, everything else succeeds.
func NewMessagingGateway() *MessagingGateway {
	m := &MessagingGateway{}
	m.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(m.NextRef, nil).Maybe()
	m.On("SendFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(m.nextFileRef, nil).Maybe()
	m.On("EditText", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("EditCaption", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("EditActions", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("CreateInviteLink", mock.Anything, mock.Anything).Return("https://t.me/+invite", nil).Maybe()
	m.On("Kick", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

// NextRef allocates a message id in chatID; usable as a Send return function.
func (m *MessagingGateway) NextRef(_ context.Context, chatID int64, _ ports.Message) kernel.MessageRef {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return kernel.MessageRef{ChatID: chatID, MessageID: m.nextID}
}

func (m *MessagingGateway) nextFileRef(ctx context.Context, chatID int64, _ ports.File, caption ports.Message) kernel.MessageRef {
	return m.NextRef(ctx, chatID, caption)
}

// Fail makes calls of method fail with err, ahead of the default expectations.
// Without args every call fails; otherwise args are matched like in On.
func (m *MessagingGateway) Fail(method string, err error, args ...any) *mock.Call {
	if len(args) == 0 {
		n := map[string]int{
			"Send": 3, "SendFile": 4, "EditText": 3, "EditCaption": 3, "EditActions": 3,
			"Delete": 2, "CreateInviteLink": 2, "Kick": 3,
		}[method]
		for range n {
			args = append(args, mock.Anything)
		}
	}

	var call *mock.Call
	switch method {
	case "Send", "SendFile":
		call = m.On(method, args...).Return(kernel.MessageRef{}, err)
	case "CreateInviteLink":
		call = m.On(method, args...).Return("", err)
	default:
		call = m.On(method, args...).Return(err)
	}
	m.prependLast()
	return call
}

// Expect registers an expectation for method ahead of the defaults.
func (m *MessagingGateway) Expect(method string, args ...any) *mock.Call {
	call := m.On(method, args...)
	m.prependLast()
	return call
}

// prependLast moves the most recent expectation to the front so it wins over the defaults.
func (m *MessagingGateway) prependLast() {
	n := len(m.ExpectedCalls)
	if n < 2 {
		return
	}
	last := m.ExpectedCalls[n-1]
	copy(m.ExpectedCalls[1:], m.ExpectedCalls[:n-1])
	m.ExpectedCalls[0] = last
}

// Sent returns the messages successfully sent to chatID, in call order. It is safe
// to call while other goroutines are still sending.
func (m *MessagingGateway) Sent(chatID int64) []ports.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ports.Message
	for _, s := range m.sent {
		if s.chatID == chatID {
			out = append(out, s.msg)
		}
	}
	return out
}

// CallsOf returns the recorded calls of method. Call it once the code under test
// has returned.
func (m *MessagingGateway) CallsOf(method string) []mock.Call {
	var out []mock.Call
	for _, c := range m.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (m *MessagingGateway) Send(ctx context.Context, chatID int64, msg ports.Message) (kernel.MessageRef, error) {
	args := m.Called(ctx, chatID, msg)
	if args.Error(1) == nil {
		m.mu.Lock()
		m.sent = append(m.sent, sentMessage{chatID: chatID, msg: msg})
		m.mu.Unlock()
	}
	if fn, ok := args.Get(0).(func(context.Context, int64, ports.Message) kernel.MessageRef); ok {
		return fn(ctx, chatID, msg), args.Error(1)
	}
	return args.Get(0).(kernel.MessageRef), args.Error(1)
}

func (m *MessagingGateway) SendFile(ctx context.Context, chatID int64, file ports.File, caption ports.Message) (kernel.MessageRef, error) {
	args := m.Called(ctx, chatID, file, caption)
	if fn, ok := args.Get(0).(func(context.Context, int64, ports.File, ports.Message) kernel.MessageRef); ok {
		return fn(ctx, chatID, file, caption), args.Error(1)
	}
	return args.Get(0).(kernel.MessageRef), args.Error(1)
}

func (m *MessagingGateway) EditText(ctx context.Context, ref kernel.MessageRef, msg ports.Message) error {
	return m.Called(ctx, ref, msg).Error(0)
}

func (m *MessagingGateway) EditCaption(ctx context.Context, ref kernel.MessageRef, msg ports.Message) error {
	return m.Called(ctx, ref, msg).Error(0)
}

func (m *MessagingGateway) EditActions(ctx context.Context, ref kernel.MessageRef, actions [][]ports.Action) error {
	return m.Called(ctx, ref, actions).Error(0)
}

func (m *MessagingGateway) Delete(ctx context.Context, ref kernel.MessageRef) error {
	return m.Called(ctx, ref).Error(0)
}

func (m *MessagingGateway) CreateInviteLink(ctx context.Context, req ports.InviteRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MessagingGateway) Kick(ctx context.Context, chatID int64, userID kernel.UserID) error {
	return m.Called(ctx, chatID, userID).Error(0)
}
