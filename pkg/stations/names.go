package stations

// names holds display names for registry stations, used as the station
// panel title.
var names = map[string]string{
	"place-alfcl": "Alewife",
	"place-alsgr": "Allston Street",
	"place-amory": "Amory Street",
	"place-andrw": "Andrew",
	"place-aport": "Airport",
	"place-aqucl": "Aquarium",
	"place-armnl": "Arlington",
	"place-asmnl": "Ashmont",
	"place-astao": "Assembly",
	"place-babck": "Babcock Street",
	"place-balsq": "Ball Square",
	"place-bbsta": "Back Bay",
	"place-bckhl": "Back of the Hill",
	"place-bcnfd": "Beaconsfield",
	"place-bcnwa": "Washington Square",
	"place-bland": "Blandford Street",
	"place-bmmnl": "Beachmont",
	"place-bndhl": "Brandon Hall",
	"place-bomnl": "Bowdoin",
	"place-boyls": "Boylston",
	"place-brdwy": "Broadway",
	"place-brico": "Packard's Corner",
	"place-brkhl": "Brookline Hills",
	"place-brmnl": "Brigham Circle",
	"place-brntn": "Braintree",
	"place-bucen": "Boston University Central",
	"place-buest": "Boston University East",
	"place-butlr": "Butler",
	"place-bvmnl": "Brookline Village",
	"place-capst": "Capen Street",
	"place-ccmnl": "Community College",
	"place-cedgr": "Cedar Grove",
	"place-cenav": "Central Avenue",
	"place-chhil": "Chestnut Hill",
	"place-chill": "Chestnut Hill Avenue",
	"place-chmnl": "Charles/MGH",
	"place-chncl": "Chinatown",
	"place-chswk": "Chiswick Road",
	"place-clmnl": "Cleveland Circle",
	"place-cntsq": "Central",
	"place-coecl": "Copley",
	"place-cool":  "Coolidge Corner",
	"place-davis": "Davis",
	"place-denrd": "Dean Road",
	"place-dwnxg": "Downtown Crossing",
	"place-eliot": "Eliot",
	"place-engav": "Englewood Avenue",
	"place-esomr": "East Somerville",
	"place-fbkst": "Fairbanks Street",
	"place-fenwd": "Fenwood Road",
	"place-fenwy": "Fenway",
	"place-fldcr": "Fields Corner",
	"place-forhl": "Forest Hills",
	"place-gilmn": "Gilman Square",
	"place-gover": "Government Center",
	"place-grigg": "Griggs Street",
	"place-grnst": "Green Street",
	"place-haecl": "Haymarket",
	"place-harsq": "Harvard",
	"place-harvd": "Harvard Avenue",
	"place-hsmnl": "Heath Street",
	"place-hwsst": "Hawes Street",
	"place-hymnl": "Hynes Convention Center",
	"place-jaksn": "Jackson Square",
	"place-jfk":   "JFK/UMass",
	"place-kencl": "Kenmore",
	"place-knncl": "Kendall/MIT",
	"place-kntst": "Kent Street",
	"place-lake":  "Boston College",
	"place-lech":  "Lechmere",
	"place-lngmd": "Longwood Medical Area",
	"place-longw": "Longwood",
	"place-masta": "Massachusetts Avenue",
	"place-matt":  "Mattapan",
	"place-mdftf": "Medford/Tufts",
	"place-mfa":   "Museum of Fine Arts",
	"place-mgngl": "Magoun Square",
	"place-miltt": "Milton",
	"place-mispk": "Mission Park",
	"place-mlmnl": "Malden Center",
	"place-mvbcl": "Maverick",
	"place-newtn": "Newton Highlands",
	"place-newto": "Newton Centre",
	"place-north": "North Station",
	"place-nqncy": "North Quincy",
	"place-nuniv": "Northeastern University",
	"place-ogmnl": "Oak Grove",
	"place-orhte": "Orient Heights",
	"place-pktrm": "Park Street",
	"place-portr": "Porter",
	"place-prmnl": "Prudential",
	"place-qamnl": "Quincy Adams",
	"place-qnctr": "Quincy Center",
	"place-rbmnl": "Revere Beach",
	"place-rcmnl": "Roxbury Crossing",
	"place-river": "Riverside",
	"place-rsmnl": "Reservoir",
	"place-rugg":  "Ruggles",
	"place-rvrwy": "Riverway",
	"place-sbmnl": "Stony Brook",
	"place-sdmnl": "Suffolk Downs",
	"place-shmnl": "Savin Hill",
	"place-smary": "Saint Mary's Street",
	"place-smmnl": "Shawmut",
	"place-sougr": "South Street",
	"place-spmnl": "Science Park/West End",
	"place-sstat": "South Station",
	"place-state": "State",
	"place-sthld": "Sutherland Road",
	"place-stpul": "Saint Paul Street",
	"place-sull":  "Sullivan Square",
	"place-sumav": "Summit Avenue",
	"place-symcl": "Symphony",
	"place-tapst": "Tappan Street",
	"place-tumnl": "Tufts Medical Center",
	"place-unsqu": "Union Square",
	"place-valrd": "Valley Road",
	"place-waban": "Waban",
	"place-wascm": "Washington Street",
	"place-welln": "Wellington",
	"place-wimnl": "Wood Island",
	"place-wlsta": "Wollaston",
	"place-wondl": "Wonderland",
	"place-woodl": "Woodland",
	"place-wrnst": "Warren Street",
}
