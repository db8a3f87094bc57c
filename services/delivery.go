package services

import (
	"strings"
	"time"
	"unicode"
)

type DeliveryZone string

const (
	ZoneMetro         DeliveryZone = "metro"
	ZoneDomestic      DeliveryZone = "domestic"
	ZoneRemote        DeliveryZone = "remote"
	ZoneInternational DeliveryZone = "international"
)

const defaultCarrier = "default"

// Transit days per carrier and zone. Keys are normalised carrier names.
var carrierTransitDays = map[string]map[DeliveryZone]int{
	"delhivery":   {ZoneMetro: 3, ZoneDomestic: 5, ZoneRemote: 8, ZoneInternational: 15},
	"bluedart":    {ZoneMetro: 2, ZoneDomestic: 4, ZoneRemote: 7, ZoneInternational: 12},
	"dtdc":        {ZoneMetro: 3, ZoneDomestic: 5, ZoneRemote: 9, ZoneInternational: 15},
	"indiapost":   {ZoneMetro: 5, ZoneDomestic: 7, ZoneRemote: 12, ZoneInternational: 21},
	"ecomexpress": {ZoneMetro: 3, ZoneDomestic: 5, ZoneRemote: 9, ZoneInternational: 15},
	"fedex":       {ZoneMetro: 2, ZoneDomestic: 4, ZoneRemote: 6, ZoneInternational: 7},
	"dhl":         {ZoneMetro: 2, ZoneDomestic: 3, ZoneRemote: 6, ZoneInternational: 6},
	"default":     {ZoneMetro: 4, ZoneDomestic: 6, ZoneRemote: 10, ZoneInternational: 15},
}

var metroCities = map[string]bool{
	"mumbai":    true,
	"delhi":     true,
	"new delhi": true,
	"bengaluru": true,
	"bangalore": true,
	"chennai":   true,
	"kolkata":   true,
	"hyderabad": true,
	"pune":      true,
	"ahmedabad": true,
}

var remoteStates = map[string]bool{
	"arunachal pradesh":           true,
	"assam":                       true,
	"manipur":                     true,
	"meghalaya":                   true,
	"mizoram":                     true,
	"nagaland":                    true,
	"sikkim":                      true,
	"tripura":                     true,
	"jammu and kashmir":           true,
	"ladakh":                      true,
	"andaman and nicobar":         true,
	"andaman and nicobar islands": true,
	"lakshadweep":                 true,
}

func normalizePlace(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), "&", " and ")
	return strings.Join(strings.Fields(s), " ")
}

// normalizeCarrier folds "Blue Dart", "blue-dart" and "bluedart" together.
func normalizeCarrier(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func ResolveZone(country, state, city string) DeliveryZone {
	if IsInternational(country) {
		return ZoneInternational
	}
	if metroCities[normalizePlace(city)] {
		return ZoneMetro
	}
	if remoteStates[normalizePlace(state)] {
		return ZoneRemote
	}
	return ZoneDomestic
}

// TransitDays falls back to the default row for unknown carriers.
func TransitDays(carrier string, zone DeliveryZone) int {
	row, ok := carrierTransitDays[normalizeCarrier(carrier)]
	if !ok {
		row = carrierTransitDays[defaultCarrier]
	}
	return row[zone]
}

func EstimateDeliveryDate(shippedAt time.Time, carrier string, zone DeliveryZone) time.Time {
	return shippedAt.AddDate(0, 0, TransitDays(carrier, zone))
}
