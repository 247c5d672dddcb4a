package backend

import (
	"fmt"
	"net/url"
	"strconv"
)

// DefaultBaseURL is the production stregsystem API.
const DefaultBaseURL = "https://stregsystem.fklub.dk/api"

const (
	activeProductsPath = "/products/active_products"
	namedProductsPath  = "/products/named_products"
	memberIDPath       = "/member/get_id"
	memberInfoPath     = "/member"
	salesPath          = "/member/sales"
	purchasePath       = "/sale"
)

func activeProductsURL(roomID int) string {
	return activeProductsPath + "?room_id=" + strconv.Itoa(roomID)
}

func memberIDURL(username string) string {
	return memberIDPath + "?username=" + url.QueryEscape(username)
}

func memberInfoURL(memberID int) string {
	return memberInfoPath + "?member_id=" + strconv.Itoa(memberID)
}

func salesURL(memberID int) string {
	return salesPath + "?member_id=" + strconv.Itoa(memberID)
}

// BuyString renders the purchase instruction understood by the sale
// endpoint: "<username> <productId>:<quantity>".
func BuyString(username, productID string, quantity int) string {
	return fmt.Sprintf("%s %s:%d", username, productID, quantity)
}
