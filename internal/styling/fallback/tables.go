// internal/styling/fallback/tables.go
package fallback

const (
	DefaultMaleBucket   = "Average"
	DefaultFemaleBucket = "Rectangle"
)

var itemsForBodyType = map[string]map[string][]string{
	"male": {
		"Slim": {
			"Layered overshirt to add visual bulk",
			"Straight-fit chinos with a slight taper",
			"Textured crew-neck knit",
		},
		"Athletic": {
			"Stretch-cotton fitted shirt",
			"Tapered trousers with room in the thigh",
			"Structured bomber jacket",
		},
		"Average": {
			"Regular-fit cotton shirt",
			"Slim-straight dark denim",
			"Unstructured blazer",
		},
		"Heavy": {
			"Dark vertical-stripe shirt",
			"Flat-front straight trousers",
			"Open single-breasted jacket",
		},
	},
	"female": {
		"Rectangle": {
			"Peplum top to define the waist",
			"Belted wrap dress",
			"High-waisted wide-leg trousers",
		},
		"Hourglass": {
			"Fitted wrap top",
			"High-waisted pencil skirt",
			"Tailored belted blazer",
		},
		"Pear": {
			"Boat-neck statement top",
			"A-line midi skirt",
			"Dark straight-leg jeans",
		},
		"Apple": {
			"Empire-waist tunic",
			"V-neck flowy blouse",
			"Straight-cut palazzo pants",
		},
		"Plus": {
			"Longline tailored kurta",
			"Monochrome column dress",
			"Open-front duster cardigan",
		},
	},
}

var accessoriesForBodyType = map[string]map[string][]string{
	"male": {
		"Slim":     {"Chunky leather watch", "Layered bracelets", "Textured scarf"},
		"Athletic": {"Minimal steel watch", "Leather belt", "Aviator sunglasses"},
		"Average":  {"Leather strap watch", "Brown leather belt", "Canvas tote"},
		"Heavy":    {"Large-face watch", "Dark belt matching trousers", "Structured messenger bag"},
	},
	"female": {
		"Rectangle": {"Statement waist belt", "Layered necklaces", "Structured handbag"},
		"Hourglass": {"Thin waist belt", "Drop earrings", "Clutch"},
		"Pear":      {"Statement earrings", "Bold necklace", "Shoulder bag"},
		"Apple":     {"Long pendant necklace", "Stole", "Tote bag"},
		"Plus":      {"Long layered necklace", "Wide bangle", "Structured tote"},
	},
}

var styleTipsForBodyType = map[string]map[string][]string{
	"male": {
		"Slim":     {"Layer pieces to add dimension", "Horizontal stripes broaden the frame"},
		"Athletic": {"Choose fits that follow the shoulders without pulling", "Avoid boxy cuts that hide your shape"},
		"Average":  {"Keep fits clean and tailored", "One statement piece per outfit is enough"},
		"Heavy":    {"Dark solid colours and vertical lines elongate", "Avoid clingy fabrics and bulky layers"},
	},
	"female": {
		"Rectangle": {"Create curves with belts and peplums", "Add volume at the shoulders or hips"},
		"Hourglass": {"Highlight the waist", "Pick fabrics that drape rather than cling"},
		"Pear":      {"Draw attention upward with detailed necklines", "Keep bottoms dark and simple"},
		"Apple":     {"Empire waists and V-necks lengthen the torso", "Show off your legs and arms"},
		"Plus":      {"Monochrome and long lines elongate", "Choose structured fabrics that hold their shape"},
	},
}

type look struct {
	title    string
	items    []string
	occasion string
}

var looksByStyle = map[string]map[string][]look{
	"male": {
		"casual": {
			{"Weekend Easy", []string{"Crew-neck tee", "Dark denim jeans", "White sneakers"}, "casual outing"},
			{"Relaxed Smart", []string{"Oxford button-down", "Chino shorts", "Canvas loafers"}, "brunch"},
			{"Layered Casual", []string{"Henley", "Light overshirt", "Desert boots"}, "day out"},
		},
		"formal": {
			{"Boardroom Ready", []string{"Two-piece suit", "Crisp white shirt", "Oxford shoes"}, "formal meeting"},
			{"Sharp Separates", []string{"Navy blazer", "Grey wool trousers", "Derby shoes"}, "office"},
			{"Evening Formal", []string{"Dark suit", "Silk tie", "Black oxfords"}, "formal event"},
		},
		"street": {
			{"Urban Layers", []string{"Oversized hoodie", "Cargo pants", "High-top sneakers"}, "street style"},
			{"Graphic Edge", []string{"Graphic tee", "Denim jacket", "Chunky sneakers"}, "hangout"},
			{"Athleisure Street", []string{"Track jacket", "Tapered joggers", "Retro runners"}, "city walk"},
		},
		"ethnic": {
			{"Festive Classic", []string{"Silk kurta", "Churidar", "Mojaris"}, "festival"},
			{"Wedding Guest", []string{"Nehru jacket", "Kurta", "Juttis"}, "wedding"},
			{"Celebration Regal", []string{"Sherwani", "Stole", "Embroidered juttis"}, "ceremony"},
		},
		"party": {
			{"Night Out", []string{"Satin shirt", "Black slim trousers", "Chelsea boots"}, "party"},
			{"Smart Party", []string{"Velvet blazer", "Black tee", "Loafers"}, "cocktail party"},
			{"Club Casual", []string{"Printed shirt", "Dark jeans", "Leather sneakers"}, "club night"},
		},
		"gym": {
			{"Training Basics", []string{"Moisture-wicking tee", "Training shorts", "Cross-trainers"}, "gym"},
			{"Run Ready", []string{"Running vest", "Running tights", "Cushioned running shoes"}, "running"},
			{"Studio Session", []string{"Compression top", "Joggers", "Minimal trainers"}, "workout"},
		},
		"elegant": {
			{"Quiet Luxury", []string{"Cashmere polo", "Pleated trousers", "Suede loafers"}, "elegant dinner"},
			{"Heritage Tailoring", []string{"Tweed blazer", "Fine-gauge rollneck", "Brogues"}, "gallery visit"},
			{"Refined Evening", []string{"Linen suit", "Open-collar shirt", "Leather loafers"}, "evening event"},
		},
	},
	"female": {
		"casual": {
			{"Weekend Easy", []string{"Relaxed tee", "Mom jeans", "White sneakers"}, "casual outing"},
			{"Sunny Day", []string{"Cotton sundress", "Denim jacket", "Flat sandals"}, "brunch"},
			{"Layered Casual", []string{"Striped top", "Cardigan", "Ankle boots"}, "day out"},
		},
		"formal": {
			{"Boardroom Ready", []string{"Tailored pantsuit", "Silk shell top", "Pointed pumps"}, "formal meeting"},
			{"Polished Separates", []string{"Pencil skirt", "Crisp blouse", "Block heels"}, "office"},
			{"Evening Formal", []string{"Sheath dress", "Tailored blazer", "Classic pumps"}, "formal event"},
		},
		"street": {
			{"Urban Layers", []string{"Cropped hoodie", "Cargo pants", "Chunky sneakers"}, "street style"},
			{"Graphic Edge", []string{"Graphic tee", "Biker shorts", "Oversized denim jacket"}, "hangout"},
			{"Athleisure Street", []string{"Track jacket", "Wide-leg joggers", "Platform sneakers"}, "city walk"},
		},
		"ethnic": {
			{"Festive Classic", []string{"Anarkali suit", "Dupatta", "Embellished juttis"}, "festival"},
			{"Wedding Guest", []string{"Silk saree", "Contrast blouse", "Jhumkas"}, "wedding"},
			{"Celebration Regal", []string{"Lehenga choli", "Net dupatta", "Embroidered heels"}, "ceremony"},
		},
		"party": {
			{"Night Out", []string{"Sequin top", "Black satin trousers", "Strappy heels"}, "party"},
			{"Cocktail Chic", []string{"Slip dress", "Cropped blazer", "Block heels"}, "cocktail party"},
			{"Club Casual", []string{"Bodysuit", "Leather skirt", "Ankle boots"}, "club night"},
		},
		"gym": {
			{"Training Basics", []string{"Sports bra", "High-waist leggings", "Cross-trainers"}, "gym"},
			{"Run Ready", []string{"Breathable tank", "Running shorts", "Cushioned running shoes"}, "running"},
			{"Studio Session", []string{"Fitted long-sleeve top", "Yoga pants", "Grip socks"}, "workout"},
		},
		"elegant": {
			{"Quiet Luxury", []string{"Silk blouse", "Wide-leg trousers", "Ballet flats"}, "elegant dinner"},
			{"Heritage Tailoring", []string{"Camel coat", "Fine-knit dress", "Loafers"}, "gallery visit"},
			{"Refined Evening", []string{"Midi wrap dress", "Pearl studs", "Slingback heels"}, "evening event"},
		},
	},
}
