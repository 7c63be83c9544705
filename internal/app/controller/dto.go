package controller

import (
	"time"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	"github.com/google/uuid"
)

// ==================== Users ====================

type UserResponse struct {
	UUID         uuid.UUID `json:"uuid"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Address      string    `json:"address"`
	PhoneNumber  string    `json:"phone_number"`
	IsMerchant   bool      `json:"is_merchant"`
	Avatar       *string   `json:"avatar"`
	DateCreated  time.Time `json:"date_created"`
	DateModified time.Time `json:"date_modified"`
}

func toUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		UUID:         u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Address:      u.Address,
		PhoneNumber:  u.PhoneNumber,
		IsMerchant:   u.IsMerchant,
		DateCreated:  u.CreatedAt,
		DateModified: u.UpdatedAt,
	}
	if u.Avatar != nil {
		url := u.Avatar.URL
		resp.Avatar = &url
	}
	return resp
}

// ==================== Products ====================

type MerchantResponse struct {
	Address string `json:"address"`
}

type ProductResponse struct {
	UUID        uuid.UUID        `json:"uuid"`
	Name        string           `json:"name"`
	IsFeatured  bool             `json:"is_featured"`
	Price       string           `json:"price"`
	Units       string           `json:"units"`
	Description string           `json:"description,omitempty"`
	Merchant    MerchantResponse `json:"merchant"`
	Images      []string         `json:"images,omitempty"`
}

func toProductResponse(p *model.Product) ProductResponse {
	resp := ProductResponse{
		UUID:        p.ID,
		Name:        p.Name,
		IsFeatured:  p.IsFeatured,
		Price:       p.Price.StringFixed(2),
		Units:       p.Units,
		Description: p.Description,
		Merchant:    MerchantResponse{Address: p.Merchant.Address},
	}
	for _, img := range p.Images {
		resp.Images = append(resp.Images, img.Image.URL)
	}
	return resp
}

func toProductResponses(products []model.Product) []ProductResponse {
	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	return resp
}

type HomeResponse struct {
	Announcements []ProductResponse `json:"announcements"`
	Advertisings  []ProductResponse `json:"advertisings"`
}

func toHomeResponse(feed *service.HomeFeed) HomeResponse {
	return HomeResponse{
		Announcements: toProductResponses(feed.Announcements),
		Advertisings:  toProductResponses(feed.Advertisings),
	}
}

// ==================== Categories ====================

type CategoryResponse struct {
	UUID  uuid.UUID `json:"uuid"`
	Name  string    `json:"name"`
	Image *string   `json:"image"`
}

func toCategoryResponse(c *model.Category) CategoryResponse {
	resp := CategoryResponse{UUID: c.ID, Name: c.Name}
	if c.Image != nil {
		url := c.Image.URL
		resp.Image = &url
	}
	return resp
}

// ==================== Orders ====================

type OrderItemResponse struct {
	UUID     uuid.UUID       `json:"uuid"`
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Units    string          `json:"units"`
}

type OrderResponse struct {
	UUID      uuid.UUID           `json:"uuid"`
	Status    model.OrderStatus   `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Items     []OrderItemResponse `json:"items"`
	Delivery  *DeliveryResponse   `json:"delivery"`
}

func toOrderResponse(o *model.Order) OrderResponse {
	resp := OrderResponse{
		UUID:      o.ID,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		Items:     make([]OrderItemResponse, 0, len(o.Items)),
	}
	for i := range o.Items {
		item := &o.Items[i]
		resp.Items = append(resp.Items, OrderItemResponse{
			UUID:     item.ID,
			Product:  toProductResponse(&item.Product),
			Quantity: item.Quantity,
			Units:    item.Units,
		})
	}
	if o.Delivery != nil {
		d := toDeliveryResponse(o.Delivery)
		resp.Delivery = &d
	}
	return resp
}

func toOrderResponses(orders []model.Order) []OrderResponse {
	resp := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	return resp
}

// ==================== Deliveries ====================

type DeliveryResponse struct {
	UUID         uuid.UUID          `json:"uuid"`
	Order        uuid.UUID          `json:"order"`
	TimeStart    time.Time          `json:"time_start"`
	TimeEnd      time.Time          `json:"time_end"`
	District     string             `json:"district"`
	DeliveryType model.DeliveryType `json:"delivery_type"`
}

func toDeliveryResponse(d *model.Delivery) DeliveryResponse {
	return DeliveryResponse{
		UUID:         d.ID,
		Order:        d.OrderID,
		TimeStart:    d.TimeStart.UTC(),
		TimeEnd:      d.TimeEnd.UTC(),
		District:     d.District,
		DeliveryType: d.DeliveryType,
	}
}

// ==================== Reviews ====================

type ReviewResponse struct {
	UUID       uuid.UUID `json:"uuid"`
	Product    uuid.UUID `json:"product"`
	Author     uuid.UUID `json:"author"`
	Merchant   uuid.UUID `json:"merchant"`
	Rating     string    `json:"rating"`
	ReviewText string    `json:"review_text"`
	Images     []string  `json:"images"`
	CreatedAt  time.Time `json:"created_at"`
}

func toReviewResponse(r *model.Review) ReviewResponse {
	resp := ReviewResponse{
		UUID:       r.ID,
		Product:    r.ProductID,
		Author:     r.AuthorID,
		Merchant:   r.MerchantID,
		Rating:     r.Rating.StringFixed(1),
		ReviewText: r.ReviewText,
		Images:     []string{},
		CreatedAt:  r.CreatedAt,
	}
	for _, img := range r.Images {
		resp.Images = append(resp.Images, img.Image.URL)
	}
	return resp
}

// ==================== Chats ====================

type ChatResponse struct {
	UUID      uuid.UUID `json:"uuid"`
	User      uuid.UUID `json:"user"`
	Merchant  uuid.UUID `json:"merchant"`
	CreatedAt time.Time `json:"created_at"`
}

func toChatResponse(c *model.Chat) ChatResponse {
	return ChatResponse{UUID: c.ID, User: c.UserID, Merchant: c.MerchantID, CreatedAt: c.CreatedAt}
}

type MessageResponse struct {
	UUID     uuid.UUID `json:"uuid"`
	Chat     uuid.UUID `json:"chat"`
	Sender   uuid.UUID `json:"sender"`
	Text     string    `json:"text"`
	SendDate time.Time `json:"send_date"`
}

func toMessageResponse(m *model.Message) MessageResponse {
	return MessageResponse{UUID: m.ID, Chat: m.ChatID, Sender: m.SenderID, Text: m.Text, SendDate: m.SendDate}
}
