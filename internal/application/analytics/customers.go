package analytics

import (
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/waste3d/course-marketplace/internal/domain"
)

// Customer is derived from sales on every read; it is never stored.
type Customer struct {
	Key               string    `json:"key"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	TotalSpent        int64     `json:"totalSpent"`
	OrdersCount       int       `json:"ordersCount"`
	LastPurchase      time.Time `json:"lastPurchase"`
	PurchasedProducts []string  `json:"purchasedProducts"`
}

// CustomerKey identifies a buyer by normalized name and email.
func CustomerKey(name, email string) string {
	norm := strings.ToLower(strings.TrimSpace(name)) + "\x00" + strings.ToLower(strings.TrimSpace(email))
	sum := blake2b.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:16])
}

// RebuildCustomers groups completed sales by customer, biggest spenders first.
func RebuildCustomers(sales []domain.Sale) []Customer {
	index := make(map[string]int)
	var out []Customer
	for _, s := range completed(sales) {
		key := CustomerKey(s.StudentName, s.StudentEmail)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Customer{Key: key, Name: s.StudentName, Email: s.StudentEmail})
		}
		c := &out[i]
		c.TotalSpent += s.Amount
		c.OrdersCount++
		if s.Date.After(c.LastPurchase) {
			c.LastPurchase = s.Date
		}
		product := s.CourseTitle
		if product == "" {
			product = s.CourseID
		}
		if !contains(c.PurchasedProducts, product) {
			c.PurchasedProducts = append(c.PurchasedProducts, product)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalSpent != out[j].TotalSpent {
			return out[i].TotalSpent > out[j].TotalSpent
		}
		return out[i].LastPurchase.After(out[j].LastPurchase)
	})
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
