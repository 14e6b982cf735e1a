// Package model defines the persisted domain entities for the app core
// service.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storeforge/appcore/internal/appconfig"
)

// AppRequestRecord is one tenant app request as stored in MongoDB. The raw
// request sub-tree is kept verbatim so a tenant build can be replayed or
// audited later.
type AppRequestRecord struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	StoreID   string               `bson:"store_id,omitempty" json:"store_id,omitempty"`
	AppName   string               `bson:"app_name" json:"app_name"`
	LogoURL   string               `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	Colors    appconfig.Colors     `bson:"colors" json:"colors"`
	Request   appconfig.AppRequest `bson:"request" json:"request"`
	Features  []string             `bson:"features,omitempty" json:"features,omitempty"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

// AppRequestQueryOptions provides options for listing stored app requests.
type AppRequestQueryOptions struct {
	AppName   string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Skip      int
}
