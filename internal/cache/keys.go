package cache

import (
	"fmt"
	"time"
)

const (
	KeyProductListPrefix = "products:list:"
	PatternProductList   = KeyProductListPrefix + "*"
	keyVariantLock       = "lock:variant:%d:%s"

	TTLProductList = 5 * time.Minute
	TTLVariantLock = 30 * time.Second
)

func ProductListKey(hash string) string {
	return KeyProductListPrefix + hash
}

func VariantLockKey(productID int64, identityKey string) string {
	return fmt.Sprintf(keyVariantLock, productID, identityKey)
}
