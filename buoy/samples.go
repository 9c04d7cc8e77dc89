// Package buoy holds the message kinds reported by a weather buoy: a
// temperature summary and a location fix.
//
// The payload structs in buoy.flex.go are generated from buoy.proto. The
// tagged record kinds below carry the same fields with inline values.
package buoy

//go:generate go run ../cmd/flexgen --in buoy.proto --out buoy.flex.go --package buoy

import (
	"github.com/anirudhraja/flexmsg/message"
	"github.com/anirudhraja/flexmsg/registry"
	"github.com/anirudhraja/flexmsg/schema"
)

// Tagged record kinds.
const (
	KindTempRecord schema.Kind = 100
	KindLocRecord  schema.Kind = 101
)

// TaggedKinds lists the tagged record kinds registered by RegisterTagged.
func TaggedKinds() []schema.Kind {
	return []schema.Kind{KindTempRecord, KindLocRecord}
}

// RegisterTagged adds the tagged record kinds to reg.
func RegisterTagged(reg *registry.Registry) error {
	if _, err := reg.RegisterSchema(KindTempRecord, "Temp msg", []*schema.Field{
		{Name: "Temp", Type: schema.TypeFloat},
		{Name: "Samples", Type: schema.TypeInteger},
	}); err != nil {
		return err
	}
	if _, err := reg.RegisterSchema(KindLocRecord, "Loc msg", []*schema.Field{
		{Name: "Lat", Type: schema.TypeFloat},
		{Name: "N/S", Type: schema.TypeChar},
		{Name: "Long", Type: schema.TypeFloat},
		{Name: "E/W", Type: schema.TypeChar},
	}); err != nil {
		return err
	}
	return nil
}

// Samples returns the sample buoy reports as layout payloads.
func Samples() []message.Instance {
	return []message.Instance{
		Temperature{AvgTemp: 4.5, NumSamples: 15},
		Location{Latitude: 33.4567, NorthSouth: 'N', Longitude: 124.8724, EastWest: 'E'},
	}
}

// TaggedSamples returns the sample buoy reports as tagged records. The
// record kinds must already be registered in reg.
func TaggedSamples(reg *registry.Registry) ([]message.Instance, error) {
	temp, err := reg.GetMessage(KindTempRecord)
	if err != nil {
		return nil, err
	}
	loc, err := reg.GetMessage(KindLocRecord)
	if err != nil {
		return nil, err
	}

	tempRecord, err := message.NewRecord(temp, schema.Float(4.5), schema.Integer(10))
	if err != nil {
		return nil, err
	}
	locRecord, err := message.NewRecord(loc,
		schema.Float(33.4567), schema.Char('N'),
		schema.Float(124.8724), schema.Char('E'),
	)
	if err != nil {
		return nil, err
	}
	return []message.Instance{tempRecord, locRecord}, nil
}
