// internal/styling/locale/geo.go
package locale

import "math"

const earthRadiusKm = 6371.0

// Locale is the static climate and culture profile resolved for a coordinate.
type Locale struct {
	City          string
	Region        string
	Climate       string
	Terrain       string
	CulturalStyle string
	Trends        []string
	BaseTempC     float64
	BaseHumidity  int
	Source        string
}

type city struct {
	name     string
	lat, lon float64
	radiusKm float64
	region   string
	climate  string
	terrain  string
	culture  string
	trends   []string
	tempC    float64
	humidity int
}

type regionBox struct {
	name             string
	minLat, maxLat   float64
	minLon, maxLon   float64
	climate, terrain string
	culture          string
	trends           []string
	tempC            float64
	humidity         int
}

var cities = []city{
	{"Mumbai", 19.076, 72.8777, 40, "West India", "Tropical wet", "Coastal", "Cosmopolitan Bollywood chic",
		[]string{"breathable linens", "indo-western fusion", "monsoon-ready footwear"}, 30, 75},
	{"Delhi", 28.6139, 77.209, 45, "North India", "Semi-arid, extreme seasons", "Plains", "Bold Punjabi and Mughal-inspired glamour",
		[]string{"layered winter jackets", "statement ethnic wear", "designer sneakers"}, 27, 55},
	{"Bangalore", 12.9716, 77.5946, 35, "South India", "Mild tropical savanna", "Plateau", "Tech-casual and laid-back",
		[]string{"smart casuals", "light layers", "minimalist sneakers"}, 24, 60},
	{"Chennai", 13.0827, 80.2707, 35, "South India", "Hot and humid coastal", "Coastal", "Traditional silks with modern cotton",
		[]string{"cotton kurtas", "silk sarees for occasions", "sandals"}, 31, 72},
	{"Kolkata", 22.5726, 88.3639, 35, "East India", "Humid subtropical", "Delta plains", "Artistic and literary",
		[]string{"handloom cottons", "jamdani weaves", "festive reds and whites"}, 29, 74},
	{"Hyderabad", 17.385, 78.4867, 35, "South India", "Hot semi-arid", "Deccan plateau", "Nizami heritage meets IT casual",
		[]string{"sherwanis for weddings", "pastel kurtas", "smart casuals"}, 28, 55},
	{"Pune", 18.5204, 73.8567, 30, "West India", "Tropical wet and dry", "Plateau", "Student and startup casual",
		[]string{"denim and tees", "ethnic fusion", "light jackets"}, 26, 58},
	{"Jaipur", 26.9124, 75.7873, 30, "North India", "Hot semi-arid", "Desert fringe", "Royal Rajasthani vibrance",
		[]string{"block prints", "bandhani dupattas", "juttis"}, 28, 40},
	{"Ahmedabad", 23.0225, 72.5714, 30, "West India", "Hot semi-arid", "Plains", "Gujarati textile heritage",
		[]string{"mirror work", "cotton chaniya cholis", "linen shirts"}, 29, 45},
	{"Goa", 15.2993, 74.124, 50, "West India", "Tropical monsoon", "Beaches", "Relaxed beach bohemian",
		[]string{"resort shirts", "flowy dresses", "espadrilles"}, 29, 78},
	{"Kochi", 9.9312, 76.2673, 30, "South India", "Tropical monsoon", "Backwaters", "Kerala kasavu elegance",
		[]string{"off-white kasavu", "cotton mundus", "light linens"}, 28, 80},
	{"Chandigarh", 30.7333, 76.7794, 25, "North India", "Humid subtropical", "Foothills", "Punjabi contemporary",
		[]string{"phulkari accents", "bomber jackets", "sneakers"}, 24, 55},
	{"Shimla", 31.1048, 77.1734, 25, "Himalayas", "Subtropical highland", "Mountains", "Hill-station layered",
		[]string{"woolen layers", "trench coats", "boots"}, 15, 60},
	{"London", 51.5074, -0.1278, 40, "Europe", "Temperate oceanic", "River basin", "Tailored British heritage",
		[]string{"trench coats", "knitwear", "chelsea boots"}, 12, 75},
	{"New York", 40.7128, -74.006, 45, "North America", "Humid continental", "Coastal urban", "Fast-paced streetwear and business",
		[]string{"oversized coats", "sneakers", "monochrome layers"}, 13, 63},
	{"Dubai", 25.2048, 55.2708, 45, "Middle East", "Hot desert", "Desert coast", "Luxury modest fashion",
		[]string{"lightweight abayas", "linen suits", "designer accessories"}, 33, 55},
	{"Singapore", 1.3521, 103.8198, 30, "Southeast Asia", "Tropical rainforest", "Island urban", "Polished tropical casual",
		[]string{"breathable shirts", "loafers", "light dresses"}, 28, 82},
}

var regions = []regionBox{
	{"Himalayas", 30, 37, 73, 97, "Alpine and subtropical highland", "Mountains", "Layered hill wear",
		[]string{"woolen shawls", "puffer jackets", "boots"}, 12, 55},
	{"Northeast India", 22, 29.5, 89.5, 97.5, "Humid subtropical", "Hills and valleys", "Tribal textile heritage",
		[]string{"handwoven shawls", "mekhela chador", "layered knits"}, 22, 78},
	{"North India", 24, 32, 68, 89.5, "Semi-arid with extreme seasons", "Plains", "Vibrant North Indian",
		[]string{"layered ethnic wear", "embroidered kurtas", "winter shawls"}, 26, 50},
	{"West India", 15, 24, 68, 78, "Tropical wet and dry", "Coastal plains", "Colourful western Indian",
		[]string{"bandhani", "cotton wear", "kolhapuri chappals"}, 28, 60},
	{"East India", 18, 24, 82, 89.5, "Humid subtropical", "Delta plains", "Handloom-rich eastern",
		[]string{"tant sarees", "cotton kurtas", "sandals"}, 28, 72},
	{"South India", 6, 18, 72, 85, "Tropical", "Peninsular plateau and coast", "Classic South Indian",
		[]string{"silk and cotton", "veshtis", "light fabrics"}, 29, 70},
	{"Middle East", 12, 38, 34, 60, "Hot desert", "Desert", "Modest luxury",
		[]string{"flowing fabrics", "linen", "sunglasses"}, 31, 40},
	{"Europe", 36, 71, -11, 40, "Temperate", "Varied", "Classic European tailoring",
		[]string{"tailored coats", "knitwear", "leather boots"}, 11, 72},
	{"North America", 15, 72, -170, -50, "Continental", "Varied", "Casual American",
		[]string{"denim", "athleisure", "puffer jackets"}, 12, 62},
	{"Southeast Asia", -11, 21, 92, 141, "Tropical", "Islands and peninsulas", "Light tropical",
		[]string{"linen", "batik prints", "sandals"}, 28, 80},
}

// Haversine returns the great-circle distance in kilometres.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Locate resolves the nearest known city within its radius, then a region
// box, then a latitude band.
func Locate(lat, lon float64) Locale {
	var best *city
	bestDist := math.MaxFloat64
	for i := range cities {
		c := &cities[i]
		d := Haversine(lat, lon, c.lat, c.lon)
		if d <= c.radiusKm && d < bestDist {
			best, bestDist = c, d
		}
	}
	if best != nil {
		return Locale{
			City: best.name, Region: best.region, Climate: best.climate, Terrain: best.terrain,
			CulturalStyle: best.culture, Trends: best.trends, BaseTempC: best.tempC,
			BaseHumidity: best.humidity, Source: "city",
		}
	}

	for _, r := range regions {
		if lat >= r.minLat && lat <= r.maxLat && lon >= r.minLon && lon <= r.maxLon {
			return Locale{
				Region: r.name, Climate: r.climate, Terrain: r.terrain, CulturalStyle: r.culture,
				Trends: r.trends, BaseTempC: r.tempC, BaseHumidity: r.humidity, Source: "region",
			}
		}
	}

	return latitudeBand(lat)
}

func latitudeBand(lat float64) Locale {
	abs := math.Abs(lat)
	switch {
	case abs < 23.5:
		return Locale{Region: "Tropics", Climate: "Tropical", Terrain: "Varied", CulturalStyle: "Light and breezy",
			Trends: []string{"cotton", "linen", "sandals"}, BaseTempC: 28, BaseHumidity: 75, Source: "band"}
	case abs < 35:
		return Locale{Region: "Subtropics", Climate: "Subtropical", Terrain: "Varied", CulturalStyle: "Warm-weather casual",
			Trends: []string{"light layers", "sunglasses", "breathable fabrics"}, BaseTempC: 22, BaseHumidity: 60, Source: "band"}
	case abs < 60:
		return Locale{Region: "Temperate zone", Climate: "Temperate", Terrain: "Varied", CulturalStyle: "Seasonal layering",
			Trends: []string{"knitwear", "coats", "boots"}, BaseTempC: 12, BaseHumidity: 65, Source: "band"}
	default:
		return Locale{Region: "Polar zone", Climate: "Polar", Terrain: "Tundra and ice", CulturalStyle: "Insulated utility",
			Trends: []string{"thermal layers", "parkas", "insulated boots"}, BaseTempC: -5, BaseHumidity: 70, Source: "band"}
	}
}
