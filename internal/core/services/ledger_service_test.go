package services_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	h       *harness
	ctx     context.Context
	session *domain.CashRegisterSession
	account *domain.CustomerAccount
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.h = newHarness(2)
	suite.session = suite.h.openSession(suite.T(), "100")
	suite.account = suite.h.newAccount(suite.T(), "cust-1", nil)
	suite.h.newStockLine(suite.T(), "p-1", 10, false)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func (suite *LedgerServiceTestSuite) sale(ref string) domain.PostRequest {
	return domain.PostRequest{
		Kind:        domain.PostSale,
		ReferenceID: ref,
		ActorID:     "cashier-1",
		Cash:        &domain.CashLeg{Amount: dec("20")},
		Account:     &domain.AccountLeg{AccountID: suite.account.ID, Amount: dec("30")},
		Stock:       []domain.StockLeg{{ProductID: "p-1", Quantity: 2}},
	}
}

func (suite *LedgerServiceTestSuite) TestPostSale_AppliesEveryLeg() {
	result, err := suite.h.ledger.Post(suite.ctx, suite.sale("sale-1"))
	suite.Require().NoError(err)

	suite.False(result.Replayed)
	suite.Equal(domain.RefSale, result.ReferenceType)
	suite.Require().Len(result.Movements, 3)
	// Lock order: stock, account, cash.
	suite.Equal(domain.CategoryStock, result.Movements[0].Category)
	suite.Equal(domain.CategoryAccount, result.Movements[1].Category)
	suite.Equal(domain.CategoryCash, result.Movements[2].Category)
	suite.Equal(suite.session.ID, result.Movements[2].AccountID)
	suite.Equal(domain.TenderCash, result.Movements[2].Tender)
	suite.Equal(domain.SourceSale, result.Movements[0].Source)
	suite.True(dec("-2").Equal(result.Movements[0].Amount))

	suite.True(dec("120").Equal(suite.h.drawer(suite.T())))
	suite.True(dec("30").Equal(suite.h.accountBalance(suite.T(), suite.account.ID)))
	suite.Equal(int64(8), suite.h.onHand(suite.T(), "p-1"))

	suite.True(dec("100").Equal(result.Balances[2].Previous))
	suite.True(dec("120").Equal(result.Balances[2].Current))
	suite.Len(suite.h.publisher.ofType(domain.EventMovementPosted), 4) // 3 + initial stock adjustment
}

func (suite *LedgerServiceTestSuite) TestPost_ReplayReturnsOriginalMovements() {
	first, err := suite.h.ledger.Post(suite.ctx, suite.sale("sale-1"))
	suite.Require().NoError(err)
	count := suite.h.store.MovementCount()
	posted := len(suite.h.publisher.ofType(domain.EventMovementPosted))

	second, err := suite.h.ledger.Post(suite.ctx, suite.sale("sale-1"))
	suite.Require().NoError(err)

	suite.True(second.Replayed)
	suite.Equal(count, suite.h.store.MovementCount())
	suite.Require().Len(second.Movements, 3)
	for i := range first.Movements {
		suite.Equal(first.Movements[i].ID, second.Movements[i].ID)
	}
	suite.True(dec("120").Equal(suite.h.drawer(suite.T())))
	suite.True(dec("30").Equal(suite.h.accountBalance(suite.T(), suite.account.ID)))
	suite.Equal(int64(8), suite.h.onHand(suite.T(), "p-1"))
	suite.Len(suite.h.publisher.ofType(domain.EventMovementPosted), posted, "replays publish nothing")
}

func (suite *LedgerServiceTestSuite) TestPost_ConcurrentDuplicatesRecordOnce() {
	g, ctx := errgroup.WithContext(suite.ctx)
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			_, err := suite.h.ledger.Post(ctx, suite.sale("sale-dup"))
			return err
		})
	}
	suite.Require().NoError(g.Wait())

	suite.True(dec("120").Equal(suite.h.drawer(suite.T())))
	suite.Equal(int64(8), suite.h.onHand(suite.T(), "p-1"))
}

func (suite *LedgerServiceTestSuite) TestPost_InsufficientStockRollsBackEveryLeg() {
	req := suite.sale("sale-big")
	req.Stock = []domain.StockLeg{{ProductID: "p-1", Quantity: 11}}
	count := suite.h.store.MovementCount()

	_, err := suite.h.ledger.Post(suite.ctx, req)

	var stockErr *apperrors.InsufficientStockError
	suite.Require().True(errors.As(err, &stockErr))
	suite.Equal(int64(10), stockErr.Available)
	suite.Equal(int64(11), stockErr.Requested)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)

	suite.Equal(count, suite.h.store.MovementCount())
	suite.True(dec("100").Equal(suite.h.drawer(suite.T())))
	suite.True(suite.h.accountBalance(suite.T(), suite.account.ID).IsZero())
	suite.Equal(int64(10), suite.h.onHand(suite.T(), "p-1"))
}

func (suite *LedgerServiceTestSuite) TestPost_BackorderAllowsNegativeStock() {
	suite.h.newStockLine(suite.T(), "p-2", 1, true)
	_, err := suite.h.ledger.Post(suite.ctx, domain.PostRequest{
		Kind:        domain.PostSale,
		ReferenceID: "sale-bo",
		ActorID:     "cashier-1",
		Cash:        &domain.CashLeg{Amount: dec("5")},
		Stock:       []domain.StockLeg{{ProductID: "p-2", Quantity: 3}},
	})
	suite.Require().NoError(err)
	suite.Equal(int64(-2), suite.h.onHand(suite.T(), "p-2"))

	// With backorder off again, receiving goods still works while negative.
	_, err = suite.h.stock.SetBackorder(suite.ctx, "p-2", false, "admin")
	suite.Require().NoError(err)
	_, err = suite.h.ledger.Post(suite.ctx, domain.PostRequest{
		Kind:        domain.PostPurchase,
		ReferenceID: "po-1",
		ActorID:     "cashier-1",
		Stock:       []domain.StockLeg{{ProductID: "p-2", Quantity: 1}},
	})
	suite.Require().NoError(err)
	suite.Equal(int64(-1), suite.h.onHand(suite.T(), "p-2"))
}

func (suite *LedgerServiceTestSuite) TestPost_CashLegNeedsOpenSession() {
	_, err := suite.h.cash.CloseSession(suite.ctx, "cashier-1", dec("100"))
	suite.Require().NoError(err)

	_, err = suite.h.ledger.Post(suite.ctx, domain.PostRequest{
		Kind:        domain.PostIncome,
		ReferenceID: "inc-1",
		ActorID:     "cashier-1",
		Cash:        &domain.CashLeg{Amount: dec("10")},
	})
	suite.ErrorIs(err, apperrors.ErrNoOpenSession)

	// Account-only postings do not need the drawer.
	_, err = suite.h.ledger.Post(suite.ctx, domain.PostRequest{
		Kind:        domain.PostSale,
		ReferenceID: "sale-credit",
		ActorID:     "cashier-1",
		Account:     &domain.AccountLeg{AccountID: suite.account.ID, Amount: dec("10")},
	})
	suite.NoError(err)
}

func (suite *LedgerServiceTestSuite) TestPost_SessionMismatch() {
	_, err := suite.h.ledger.Post(suite.ctx, domain.PostRequest{
		Kind:        domain.PostIncome,
		ReferenceID: "inc-0",
		ActorID:     "cashier-1",
		Cash:        &domain.CashLeg{Amount: dec("10"), SessionID: suite.session.ID},
	})
	suite.Require().NoError(err)

	_, err = suite.h.cash.CloseSession(suite.ctx, "cashier-1", dec("110"))
	suite.Require().NoError(err)
	reopened := suite.h.openSession(suite.T(), "110")
	suite.Require().NotEqual(suite.session.ID, reopened.ID)

	// A terminal still holding the closed session id must not post into the new drawer.
	_, err = suite.h.ledger.Post(suite.ctx, domain.PostRequest{
		Kind:        domain.PostIncome,
		ReferenceID: "inc-1",
		ActorID:     "cashier-1",
		Cash:        &domain.CashLeg{Amount: dec("10"), SessionID: suite.session.ID},
	})
	suite.ErrorIs(err, apperrors.ErrSessionClosed)
	suite.True(dec("110").Equal(suite.h.drawer(suite.T())))

	closed, err := suite.h.cash.GetSession(suite.ctx, suite.session.ID)
	suite.Require().NoError(err)
	suite.Equal(domain.SessionClosed, closed.Status)
	suite.True(dec("10").Equal(closed.CashTotal))
}

func (suite *LedgerServiceTestSuite) TestPost_RejectsAmountsBeyondMoneyScale() {
	cases := map[string]domain.PostRequest{
		"cash":    {Kind: domain.PostSale, ReferenceID: "r-cash", ActorID: "a", Cash: &domain.CashLeg{Amount: dec("0.00001")}},
		"account": {Kind: domain.PostSale, ReferenceID: "r-acc", ActorID: "a", Account: &domain.AccountLeg{AccountID: suite.account.ID, Amount: dec("1.00005")}},
		"adjustment": {Kind: domain.PostAdjustment, ReferenceID: "r-adj", ActorID: "a",
			Account: &domain.AccountLeg{AccountID: suite.account.ID, Amount: dec("-0.00004")}},
	}
	count := suite.h.store.MovementCount()
	for name, req := range cases {
		_, err := suite.h.ledger.Post(suite.ctx, req)
		suite.ErrorIs(err, apperrors.ErrValidation, name)
	}
	suite.Equal(count, suite.h.store.MovementCount())
	suite.True(dec("100").Equal(suite.h.drawer(suite.T())))
	suite.True(decimal.Zero.Equal(suite.h.accountBalance(suite.T(), suite.account.ID)))

	check, err := suite.h.ledger.VerifyBalance(suite.ctx, domain.CategoryAccount, suite.account.ID)
	suite.Require().NoError(err)
	suite.True(check.Consistent)
}

func (suite *LedgerServiceTestSuite) TestPost_RejectsOversizedStockQuantity() {
	for _, qty := range []int64{math.MaxInt64, math.MinInt64, accounting.MaxStockQuantity + 1} {
		_, err := suite.h.ledger.Post(suite.ctx, domain.PostRequest{
			Kind:        domain.PostAdjustment,
			ReferenceID: fmt.Sprintf("adj-%d", qty),
			ActorID:     "admin",
			Stock:       []domain.StockLeg{{ProductID: "p-1", Quantity: qty}},
		})
		suite.ErrorIs(err, apperrors.ErrValidation, "quantity %d", qty)
	}
	suite.Equal(int64(10), suite.h.onHand(suite.T(), "p-1"))

	check, err := suite.h.ledger.VerifyBalance(suite.ctx, domain.CategoryStock, "p-1")
	suite.Require().NoError(err)
	suite.True(check.Consistent)
}

func (suite *LedgerServiceTestSuite) TestPost_StockLevelOverflowIsRejected() {
	err := suite.h.store.WithinTx(suite.ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.UpdateStockLevel(ctx, "p-1", math.MaxInt64-5, "admin", suite.h.clock.Now())
	})
	suite.Require().NoError(err)
	count := suite.h.store.MovementCount()

	_, err = suite.h.ledger.Post(suite.ctx, domain.PostRequest{
		Kind:        domain.PostPurchase,
		ReferenceID: "pur-1",
		ActorID:     "cashier-1",
		Cash:        &domain.CashLeg{Amount: dec("10")},
		Stock:       []domain.StockLeg{{ProductID: "p-1", Quantity: 6}},
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(int64(math.MaxInt64-5), suite.h.onHand(suite.T(), "p-1"))
	suite.Equal(count, suite.h.store.MovementCount())
	suite.True(dec("100").Equal(suite.h.drawer(suite.T())))

	_, err = suite.h.ledger.Post(suite.ctx, domain.PostRequest{
		Kind:        domain.PostPurchase,
		ReferenceID: "pur-2",
		ActorID:     "cashier-1",
		Stock:       []domain.StockLeg{{ProductID: "p-1", Quantity: 5}},
	})
	suite.Require().NoError(err)
	suite.Equal(int64(math.MaxInt64), suite.h.onHand(suite.T(), "p-1"))
}

func (suite *LedgerServiceTestSuite) TestPost_Validation() {
	cases := map[string]domain.PostRequest{
		"no legs":         {Kind: domain.PostSale, ReferenceID: "r", ActorID: "a"},
		"no reference":    {Kind: domain.PostSale, ActorID: "a", Cash: &domain.CashLeg{Amount: dec("1")}},
		"unknown kind":    {Kind: "GIFT", ReferenceID: "r", ActorID: "a", Cash: &domain.CashLeg{Amount: dec("1")}},
		"zero amount":     {Kind: domain.PostSale, ReferenceID: "r", ActorID: "a", Cash: &domain.CashLeg{Amount: decimal.Zero}},
		"negative sale":   {Kind: domain.PostSale, ReferenceID: "r", ActorID: "a", Cash: &domain.CashLeg{Amount: dec("-1")}},
		"expense account": {Kind: domain.PostExpense, ReferenceID: "r", ActorID: "a", Account: &domain.AccountLeg{AccountID: suite.account.ID, Amount: dec("1")}},
		"duplicate product": {Kind: domain.PostPurchase, ReferenceID: "r", ActorID: "a", Stock: []domain.StockLeg{
			{ProductID: "p-1", Quantity: 1}, {ProductID: "p-1", Quantity: 2},
		}},
		"bad tender": {Kind: domain.PostSale, ReferenceID: "r", ActorID: "a", Cash: &domain.CashLeg{Amount: dec("1"), Tender: "CHEQUE"}},
	}
	for name, req := range cases {
		_, err := suite.h.ledger.Post(suite.ctx, req)
		suite.ErrorIs(err, apperrors.ErrValidation, name)
	}
}

func (suite *LedgerServiceTestSuite) TestPost_ClosedAccountRejectsNewCharges() {
	_, err := suite.h.ledger.Post(suite.ctx, suite.sale("sale-1"))
	suite.Require().NoError(err)
	_, err = suite.h.accounts.UpdateCustomerAccountStatus(suite.ctx, suite.account.ID, domain.AccountClosed, "admin")
	suite.Require().NoError(err)

	_, err = suite.h.ledger.Post(suite.ctx, suite.sale("sale-2"))
	suite.ErrorIs(err, apperrors.ErrAccountClosed)

	// Reversing an earlier sale is still allowed.
	_, err = suite.h.ledger.Reverse(suite.ctx, domain.ReverseRequest{ReferenceID: "sale-1", ReferenceType: domain.RefSale, ActorID: "manager"})
	suite.NoError(err)
	suite.True(suite.h.accountBalance(suite.T(), suite.account.ID).IsZero())
}

func (suite *LedgerServiceTestSuite) TestPost_CreditLimitEventOnlyOnCrossing() {
	limit := dec("100")
	acc := suite.h.newAccount(suite.T(), "cust-limited", &limit)
	charge := func(ref, amount string) {
		_, err := suite.h.ledger.Post(suite.ctx, domain.PostRequest{
			Kind:        domain.PostSale,
			ReferenceID: ref,
			ActorID:     "cashier-1",
			Account:     &domain.AccountLeg{AccountID: acc.ID, Amount: dec(amount)},
		})
		suite.Require().NoError(err)
	}

	charge("s-1", "80")
	suite.Empty(suite.h.publisher.ofType(domain.EventCreditLimitExceeded))

	charge("s-2", "30")
	events := suite.h.publisher.ofType(domain.EventCreditLimitExceeded)
	suite.Require().Len(events, 1)
	exceeded := events[0].(domain.CreditLimitExceeded)
	suite.Equal(acc.ID, exceeded.AccountID)
	suite.True(dec("80").Equal(exceeded.Previous))
	suite.True(dec("110").Equal(exceeded.Current))

	charge("s-3", "10")
	suite.Len(suite.h.publisher.ofType(domain.EventCreditLimitExceeded), 1)
	suite.True(dec("120").Equal(suite.h.accountBalance(suite.T(), acc.ID)))
}

func (suite *LedgerServiceTestSuite) TestPost_ConcurrentPostsOnOneAccount() {
	_, err := suite.h.ledger.Post(suite.ctx, domain.PostRequest{
		Kind:        domain.PostSale,
		ReferenceID: "sale-credit",
		ActorID:     "cashier-1",
		Account:     &domain.AccountLeg{AccountID: suite.account.ID, Amount: dec("100")},
	})
	suite.Require().NoError(err)

	g, ctx := errgroup.WithContext(suite.ctx)
	for i := 0; i < 100; i++ {
		ref := fmt.Sprintf("inc-%d", i)
		g.Go(func() error {
			_, err := suite.h.ledger.Post(ctx, domain.PostRequest{
				Kind:        domain.PostIncome,
				ReferenceID: ref,
				ActorID:     "cashier-1",
				Cash:        &domain.CashLeg{Amount: dec("1")},
				Account:     &domain.AccountLeg{AccountID: suite.account.ID, Amount: dec("1")},
			})
			return err
		})
	}
	suite.Require().NoError(g.Wait())

	suite.True(suite.h.accountBalance(suite.T(), suite.account.ID).IsZero())
	suite.True(dec("200").Equal(suite.h.drawer(suite.T())))

	check, err := suite.h.ledger.VerifyBalance(suite.ctx, domain.CategoryAccount, suite.account.ID)
	suite.Require().NoError(err)
	suite.True(check.Consistent)
}

func (suite *LedgerServiceTestSuite) TestPost_RetriesTransientFailure() {
	suite.h.store.InjectCommitError(fmt.Errorf("%w: serialization failure", apperrors.ErrTransient))
	count := suite.h.store.MovementCount()

	result, err := suite.h.ledger.Post(suite.ctx, domain.PostRequest{
		Kind:        domain.PostIncome,
		ReferenceID: "inc-retry",
		ActorID:     "cashier-1",
		Cash:        &domain.CashLeg{Amount: dec("50")},
	})
	suite.Require().NoError(err)
	suite.False(result.Replayed)
	suite.Equal(count+1, suite.h.store.MovementCount())
	suite.True(dec("150").Equal(suite.h.drawer(suite.T())))
}

func (suite *LedgerServiceTestSuite) TestPost_GivesUpAfterMaxRetries() {
	for i := 0; i < 3; i++ {
		suite.h.store.InjectCommitError(apperrors.ErrTransient)
	}
	count := suite.h.store.MovementCount()

	_, err := suite.h.ledger.Post(suite.ctx, domain.PostRequest{
		Kind:        domain.PostIncome,
		ReferenceID: "inc-fail",
		ActorID:     "cashier-1",
		Cash:        &domain.CashLeg{Amount: dec("50")},
	})
	suite.ErrorIs(err, apperrors.ErrTransient)
	suite.Equal(count, suite.h.store.MovementCount())
	suite.True(dec("100").Equal(suite.h.drawer(suite.T())))
}

func (suite *LedgerServiceTestSuite) TestReverse_RestoresBalances() {
	_, err := suite.h.ledger.Post(suite.ctx, suite.sale("sale-1"))
	suite.Require().NoError(err)

	result, err := suite.h.ledger.Reverse(suite.ctx, domain.ReverseRequest{ReferenceID: "sale-1", ReferenceType: domain.RefSale, ActorID: "manager"})
	suite.Require().NoError(err)

	suite.Equal(domain.ReferenceType("sale_reversal"), result.ReferenceType)
	suite.Require().Len(result.Movements, 3)
	for _, m := range result.Movements {
		suite.Equal(domain.KindReversal, m.Kind)
		suite.NotNil(m.ReversesMovementID)
	}
	suite.True(dec("100").Equal(suite.h.drawer(suite.T())))
	suite.True(suite.h.accountBalance(suite.T(), suite.account.ID).IsZero())
	suite.Equal(int64(10), suite.h.onHand(suite.T(), "p-1"))

	replay, err := suite.h.ledger.Reverse(suite.ctx, domain.ReverseRequest{ReferenceID: "sale-1", ReferenceType: domain.RefSale, ActorID: "manager"})
	suite.Require().NoError(err)
	suite.True(replay.Replayed)
	suite.True(dec("100").Equal(suite.h.drawer(suite.T())))
}

func (suite *LedgerServiceTestSuite) TestReverse_CashLandsInCurrentSession() {
	_, err := suite.h.ledger.Post(suite.ctx, domain.PostRequest{
		Kind:        domain.PostIncome,
		ReferenceID: "inc-1",
		ActorID:     "cashier-1",
		Cash:        &domain.CashLeg{Amount: dec("40")},
	})
	suite.Require().NoError(err)
	_, err = suite.h.cash.CloseSession(suite.ctx, "cashier-1", dec("140"))
	suite.Require().NoError(err)
	next := suite.h.openSession(suite.T(), "140")

	result, err := suite.h.ledger.Reverse(suite.ctx, domain.ReverseRequest{ReferenceID: "inc-1", ReferenceType: domain.RefIncome, ActorID: "manager"})
	suite.Require().NoError(err)
	suite.Equal(next.ID, result.Movements[0].AccountID)
	suite.True(dec("100").Equal(suite.h.drawer(suite.T())))
}

func (suite *LedgerServiceTestSuite) TestReverse_Errors() {
	_, err := suite.h.ledger.Reverse(suite.ctx, domain.ReverseRequest{ReferenceID: "missing", ReferenceType: domain.RefSale, ActorID: "manager"})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.h.ledger.Reverse(suite.ctx, domain.ReverseRequest{ReferenceID: "sale-1", ReferenceType: "sale_reversal", ActorID: "manager"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestVerifyBalance_AllLedgers() {
	_, err := suite.h.ledger.Post(suite.ctx, suite.sale("sale-1"))
	suite.Require().NoError(err)

	cash, err := suite.h.ledger.VerifyBalance(suite.ctx, domain.CategoryCash, suite.session.ID)
	suite.Require().NoError(err)
	suite.True(cash.Consistent)
	suite.True(dec("120").Equal(cash.Stored))

	stock, err := suite.h.ledger.VerifyBalance(suite.ctx, domain.CategoryStock, "p-1")
	suite.Require().NoError(err)
	suite.True(stock.Consistent)
	suite.True(dec("8").Equal(stock.Reconstructed))

	_, err = suite.h.ledger.VerifyBalance(suite.ctx, domain.CategoryAccount, "nope")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestListMovements_Paginates() {
	for i := 0; i < 3; i++ {
		suite.h.clock.Advance(1)
		_, err := suite.h.ledger.Post(suite.ctx, domain.PostRequest{
			Kind:        domain.PostIncome,
			ReferenceID: fmt.Sprintf("inc-%d", i),
			ActorID:     "cashier-1",
			Cash:        &domain.CashLeg{Amount: dec("1")},
		})
		suite.Require().NoError(err)
	}

	page, err := suite.h.ledger.ListMovements(suite.ctx, dto.ListMovementsParams{Category: domain.CategoryCash, AccountID: suite.session.ID, Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(page.Movements, 2)
	suite.Equal("inc-2", page.Movements[0].ReferenceID)
	suite.Require().NotNil(page.NextToken)

	rest, err := suite.h.ledger.ListMovements(suite.ctx, dto.ListMovementsParams{Category: domain.CategoryCash, AccountID: suite.session.ID, Limit: 2, NextToken: page.NextToken})
	suite.Require().NoError(err)
	suite.Len(rest.Movements, 1)
	suite.Nil(rest.NextToken)

	_, err = suite.h.ledger.ListMovements(suite.ctx, dto.ListMovementsParams{Category: "BANK"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}
