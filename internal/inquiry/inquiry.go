// Package inquiry 实现客户询价的生命周期状态机。
//
// RECEIVED → QUOTED → DONE 为自动路径：询价一到达就设置固定回价、
// 转入 QUOTED 并重新广播，随即转入 DONE 再广播 —— 整个决议发生在
// 同一次触发调用内，不等待外部确认（与上游系统约定保持一致）。
// RECEIVED → REJECTED / CUSTOMER_REJECTED 为显式外部动作；其中
// Reject 直接改状态而不经过监听器链，是管道里唯一的静默变更。
package inquiry

import (
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/bondtrading/internal/refdata"
	"github.com/wyfcoding/bondtrading/internal/tradebooking"
	"github.com/wyfcoding/bondtrading/pkg/soa"
)

// State 询价状态
type State string

const (
	Received         State = "RECEIVED"
	Quoted           State = "QUOTED"
	Done             State = "DONE"
	Rejected         State = "REJECTED"
	CustomerRejected State = "CUSTOMER_REJECTED"
)

// Inquiry 一条客户询价，按询价 ID 唯一。
type Inquiry struct {
	InquiryID string
	Product   refdata.Bond
	Side      tradebooking.Side
	Quantity  int64
	Price     decimal.Decimal
	State     State
}

// Service 询价阶段。
type Service struct {
	store      *soa.Store[string, Inquiry]
	quotePrice decimal.Decimal
}

// NewService creates the inquiry stage. quotePrice is the fixed
// response price for the automatic quote. The service registers its
// own auto-quote listener first, ahead of any external listener.
func NewService(quotePrice decimal.Decimal) *Service {
	s := &Service{
		store:      soa.New("inquiry", func(i Inquiry) string { return i.InquiryID }),
		quotePrice: quotePrice,
	}
	s.store.AddListener(soa.ListenerFunc[Inquiry](s.autoQuote))
	return s
}

// Get returns an inquiry by id.
func (s *Service) Get(inquiryID string) (Inquiry, error) {
	return s.store.Get(inquiryID)
}

// OnMessage 接收一条询价并广播。
func (s *Service) OnMessage(i Inquiry) error {
	return s.store.OnMessage(i)
}

// AddListener registers a downstream consumer of inquiry updates.
func (s *Service) AddListener(l soa.Listener[Inquiry]) {
	s.store.AddListener(l)
}

func (s *Service) autoQuote(i Inquiry) error {
	if i.State != Received {
		return nil
	}
	return s.SendQuote(i.InquiryID, s.quotePrice)
}

// SendQuote 给 RECEIVED 状态的询价回价：设置价格后依次经历
// QUOTED、DONE 两次状态变更，每次都重新广播。
func (s *Service) SendQuote(inquiryID string, price decimal.Decimal) error {
	i, err := s.store.Get(inquiryID)
	if err != nil {
		return err
	}
	if i.State != Received {
		return nil
	}

	i.Price = price
	i.State = Quoted
	if err := s.store.OnMessage(i); err != nil {
		return err
	}

	i.State = Done
	return s.store.OnMessage(i)
}

// Reject 把询价置为 REJECTED。不经过监听器链。
func (s *Service) Reject(inquiryID string) error {
	i, err := s.store.Get(inquiryID)
	if err != nil {
		return err
	}
	i.State = Rejected
	s.store.Put(i)
	return nil
}
