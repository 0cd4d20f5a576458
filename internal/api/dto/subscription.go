package dto

type SubscriptionRequest struct {
	Email string `json:"email"`
}

type ListSubscriptionsResponse struct {
	Emails []string `json:"emails"`
}
