package types

// SubscriptionStatus is the lifecycle status Flow reports for a subscription.
// Values are Flow's own wire integers; anything else is treated as unknown.
type SubscriptionStatus int

const (
	SubscriptionStatusInactive  SubscriptionStatus = 0
	SubscriptionStatusActive    SubscriptionStatus = 1
	SubscriptionStatusTrial     SubscriptionStatus = 2
	SubscriptionStatusCancelled SubscriptionStatus = 4
)

// MoroseLevel is Flow's delinquency indicator. It tracks payment health
// independently of the subscription lifecycle status.
type MoroseLevel int

const (
	MoroseCurrent             MoroseLevel = 0
	MoroseOverdueSuspended    MoroseLevel = 1
	MorosePendingFirstPayment MoroseLevel = 2
)

// InvoiceStatusUnpaid is the Flow invoice status for an unpaid invoice.
// Any non-zero value means paid (or otherwise settled).
const InvoiceStatusUnpaid = 0

// AccessRule identifies which resolver rule granted access.
type AccessRule string

const (
	AccessRuleNone          AccessRule = ""
	AccessRuleTrial         AccessRule = "trial"
	AccessRulePendingFirst  AccessRule = "pending_first_payment"
	AccessRuleInvoiceGrace  AccessRule = "invoice_grace"
	AccessRuleActivePaid    AccessRule = "active_paid"
	AccessRuleCancelledTail AccessRule = "cancelled_tail"
)

// StatusCategory is the mutually exclusive display classification of a
// subscription record. It is richer than the resolver's boolean verdict:
// a record can be access-granting while still labeled as pending payment.
type StatusCategory string

const (
	StatusCategoryTrialActive    StatusCategory = "trial_active"
	StatusCategoryTrialExpired   StatusCategory = "trial_expired"
	StatusCategoryCancelledTail  StatusCategory = "cancelled_tail"
	StatusCategoryCancelled      StatusCategory = "cancelled"
	StatusCategoryPendingGrace   StatusCategory = "pending_grace"
	StatusCategoryPendingExpired StatusCategory = "pending_expired"
	StatusCategoryOverdueGrace   StatusCategory = "overdue_grace"
	StatusCategorySuspended      StatusCategory = "suspended"
	StatusCategoryRenewalPending StatusCategory = "renewal_pending"
	StatusCategoryActive         StatusCategory = "active"
	StatusCategoryInactive       StatusCategory = "inactive"
)

// Role flags stored on an account. FlowSubscriber is granted and revoked by
// the role sync routine; Administrator holders are never demoted by it.
const (
	RoleFlowSubscriber = "flow_subscriber"
	RoleAdministrator  = "administrator"
)
