package on3

// slugs maps a program name to its On3 URL slug
var slugs = map[string]string{
	"Air Force":          "air-force-falcons",
	"Akron":              "akron-zips",
	"Alabama":            "alabama-crimson-tide",
	"Appalachian State":  "appalachian-state-mountaineers",
	"Arizona":            "arizona-wildcats",
	"Arizona State":      "arizona-state-sun-devils",
	"Arkansas":           "arkansas-razorbacks",
	"Arkansas State":     "arkansas-state-red-wolves",
	"Army":               "army-black-knights",
	"Auburn":             "auburn-tigers",
	"Ball State":         "ball-state-cardinals",
	"Baylor":             "baylor-bears",
	"Boise State":        "boise-state-broncos",
	"Boston College":     "boston-college-eagles",
	"Bowling Green":      "bowling-green-falcons",
	"Buffalo":            "buffalo-bulls",
	"BYU":                "byu-cougars",
	"California":         "california-golden-bears",
	"Central Michigan":   "central-michigan-chippewas",
	"Charlotte":          "charlotte-49ers",
	"Cincinnati":         "cincinnati-bearcats",
	"Clemson":            "clemson-tigers",
	"Coastal Carolina":   "coastal-carolina-chanticleers",
	"Colorado":           "colorado-buffaloes",
	"Colorado State":     "colorado-state-rams",
	"Connecticut":        "connecticut-huskies",
	"Duke":               "duke-blue-devils",
	"East Carolina":      "east-carolina-pirates",
	"Eastern Michigan":   "eastern-michigan-eagles",
	"FIU":                "fiu-golden-panthers",
	"Florida":            "florida-gators",
	"Florida Atlantic":   "florida-atlantic-owls",
	"Florida State":      "florida-state-seminoles",
	"Fresno State":       "fresno-state-bulldogs",
	"Georgia":            "georgia-bulldogs",
	"Georgia Southern":   "georgia-southern-eagles",
	"Georgia State":      "georgia-state-panthers",
	"Georgia Tech":       "georgia-tech-yellow-jackets",
	"Hawaii":             "hawaii-rainbow-warriors",
	"Houston":            "houston-cougars",
	"Idaho":              "idaho-vandals",
	"Illinois":           "illinois-fighting-illini",
	"Indiana":            "indiana-hoosiers",
	"Iowa":               "iowa-hawkeyes",
	"Iowa State":         "iowa-state-cyclones",
	"Jacksonville State": "jacksonville-state-gamecocks",
	"James Madison":      "james-madison-dukes",
	"Kansas":             "kansas-jayhawks",
	"Kansas State":       "kansas-state-wildcats",
	"Kennesaw State":     "kennesaw-state-owls",
	"Kent State":         "kent-state-golden-flashes",
	"Kentucky":           "kentucky-wildcats",
	"Liberty":            "liberty-flames",
	"Louisiana":          "louisiana-ragin-cajuns",
	"Louisiana Monroe":   "louisiana-monroe-warhawks",
	"Louisiana Tech":     "louisiana-tech-bulldogs",
	"Louisville":         "louisville-cardinals",
	"LSU":                "lsu-tigers",
	"Marshall":           "marshall-thundering-herd",
	"Maryland":           "maryland-terrapins",
	"Memphis":            "memphis-tigers",
	"Miami":              "miami-hurricanes",
	"Miami (OH)":         "miami-oh-redhawks",
	"Michigan":           "michigan-wolverines",
	"Michigan State":     "michigan-state-spartans",
	"Middle Tennessee":   "middle-tennessee-state-blue-raiders",
	"Minnesota":          "minnesota-golden-gophers",
	"Mississippi State":  "mississippi-state-bulldogs",
	"Missouri":           "missouri-tigers",
	"Navy":               "navy-midshipmen",
	"NC State":           "nc-state-wolfpack",
	"Nebraska":           "nebraska-cornhuskers",
	"Nevada":             "nevada-wolf-pack",
	"New Mexico":         "new-mexico-lobos",
	"New Mexico State":   "new-mexico-state-aggies",
	"North Carolina":     "north-carolina-tar-heels",
	"North Texas":        "north-texas-mean-green",
	"Northern Illinois":  "northern-illinois-huskies",
	"Northwestern":       "northwestern-wildcats",
	"Notre Dame":         "notre-dame-fighting-irish",
	"Ohio":               "ohio-bobcats",
	"Ohio State":         "ohio-state-buckeyes",
	"Oklahoma":           "oklahoma-sooners",
	"Oklahoma State":     "oklahoma-state-cowboys",
	"Old Dominion":       "old-dominion-monarchs",
	"Ole Miss":           "ole-miss-rebels",
	"Oregon":             "oregon-ducks",
	"Oregon State":       "oregon-state-beavers",
	"Penn State":         "penn-state-nittany-lions",
	"Pittsburgh":         "pittsburgh-panthers",
	"Purdue":             "purdue-boilermakers",
	"Rice":               "rice-owls",
	"Rutgers":            "rutgers-scarlet-knights",
	"Sam Houston":        "sam-houston-state-bearkats",
	"San Diego State":    "san-diego-state-aztecs",
	"San Jose State":     "san-jose-state-spartans",
	"SMU":                "smu-mustangs",
	"South Alabama":      "south-alabama-jaguars",
	"South Carolina":     "south-carolina-gamecocks",
	"South Florida":      "usf-bulls",
	"Southern Miss":      "southern-miss-golden-eagles",
	"Stanford":           "stanford-cardinal",
	"Syracuse":           "syracuse-orange",
	"TCU":                "tcu-horned-frogs",
	"Temple":             "temple-owls",
	"Tennessee":          "tennessee-volunteers",
	"Texas":              "texas-longhorns",
	"Texas A&M":          "texas-am-aggies",
	"Texas State":        "texas-state-bobcats",
	"Texas Tech":         "texas-tech-red-raiders",
	"Toledo":             "toledo-rockets",
	"Troy":               "troy-trojans",
	"Tulane":             "tulane-green-wave",
	"Tulsa":              "tulsa-golden-hurricane",
	"UAB":                "uab-blazers",
	"UCF":                "ucf-knights",
	"UCLA":               "ucla-bruins",
	"UNLV":               "unlv-rebels",
	"USC":                "usc-trojans",
	"Utah":               "utah-utes",
	"Utah State":         "utah-state-aggies",
	"UTEP":               "utep-miners",
	"UTSA":               "utsa-roadrunners",
	"Vanderbilt":         "vanderbilt-commodores",
	"Virginia":           "virginia-cavaliers",
	"Virginia Tech":      "virginia-tech-hokies",
	"Wake Forest":        "wake-forest-demon-deacons",
	"Washington":         "washington-huskies",
	"Washington State":   "washington-state-cougars",
	"West Virginia":      "west-virginia-mountaineers",
	"Western Kentucky":   "western-kentucky-hilltoppers",
	"Western Michigan":   "western-michigan-broncos",
	"Wisconsin":          "wisconsin-badgers",
	"Wyoming":            "wyoming-cowboys",
}
