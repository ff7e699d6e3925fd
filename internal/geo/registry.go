package geo

// Static station registries. These cover the operating area of the charter
// fleet (US Gulf and southern Atlantic coasts). Both slices are read-only for
// the process lifetime and safe to share across concurrent evaluations.

// BuoyStations returns the NDBC buoys used for live marine observations.
func BuoyStations() []Station {
	return []Station{
		{ID: "42012", Name: "Orange Beach - 44 NM SSE of Mobile, AL", Coordinate: Coordinate{Lat: 30.064, Lon: -87.555}},
		{ID: "42040", Name: "Luke Offshore Test Platform - 63 NM S of Dauphin Island, AL", Coordinate: Coordinate{Lat: 29.207, Lon: -88.237}},
		{ID: "42039", Name: "Pensacola - 115 NM ESE of Pensacola, FL", Coordinate: Coordinate{Lat: 28.787, Lon: -86.007}},
		{ID: "42036", Name: "West Tampa - 112 NM WNW of Tampa, FL", Coordinate: Coordinate{Lat: 28.501, Lon: -84.508}},
		{ID: "42022", Name: "Eastern Gulf - 95 NM SSW of Apalachicola, FL", Coordinate: Coordinate{Lat: 27.504, Lon: -83.741}},
		{ID: "42013", Name: "C10 - 30 NM W of Tampa Bay", Coordinate: Coordinate{Lat: 27.173, Lon: -82.924}},
		{ID: "41112", Name: "Fernandina Beach, FL", Coordinate: Coordinate{Lat: 30.709, Lon: -81.292}},
		{ID: "41008", Name: "Grays Reef - 40 NM SE of Savannah, GA", Coordinate: Coordinate{Lat: 31.4, Lon: -80.866}},
		{ID: "41009", Name: "Canaveral - 20 NM E of Cape Canaveral, FL", Coordinate: Coordinate{Lat: 28.508, Lon: -80.185}},
		{ID: "41114", Name: "Fort Pierce, FL", Coordinate: Coordinate{Lat: 27.551, Lon: -80.225}},
		{ID: "LKWF1", Name: "Lake Worth Pier, FL", Coordinate: Coordinate{Lat: 26.612, Lon: -80.034}},
		{ID: "42095", Name: "Lower Keys - 20 NM SSW of Key West, FL", Coordinate: Coordinate{Lat: 24.407, Lon: -81.967}},
	}
}

// TideStations returns the CO-OPS stations used for tide predictions.
func TideStations() []Station {
	return []Station{
		{ID: "8729108", Name: "Panama City, FL", Coordinate: Coordinate{Lat: 30.152, Lon: -85.667}},
		{ID: "8729840", Name: "Pensacola, FL", Coordinate: Coordinate{Lat: 30.404, Lon: -87.211}},
		{ID: "8735180", Name: "Dauphin Island, AL", Coordinate: Coordinate{Lat: 30.25, Lon: -88.075}},
		{ID: "8726724", Name: "Clearwater Beach, FL", Coordinate: Coordinate{Lat: 27.978, Lon: -82.832}},
		{ID: "8725110", Name: "Naples, FL", Coordinate: Coordinate{Lat: 26.131, Lon: -81.807}},
		{ID: "8724580", Name: "Key West, FL", Coordinate: Coordinate{Lat: 24.551, Lon: -81.808}},
		{ID: "8723214", Name: "Virginia Key, FL", Coordinate: Coordinate{Lat: 25.731, Lon: -80.162}},
		{ID: "8722670", Name: "Lake Worth Pier, FL", Coordinate: Coordinate{Lat: 26.613, Lon: -80.034}},
		{ID: "8721604", Name: "Trident Pier, Port Canaveral, FL", Coordinate: Coordinate{Lat: 28.415, Lon: -80.593}},
		{ID: "8720218", Name: "Mayport, FL", Coordinate: Coordinate{Lat: 30.398, Lon: -81.43}},
		{ID: "8670870", Name: "Fort Pulaski, GA", Coordinate: Coordinate{Lat: 32.035, Lon: -80.903}},
	}
}
