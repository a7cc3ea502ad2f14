package stations

import "metromap/pkg/types"

// Coordinates maps station ids onto the logical canvas. Edit by hand or
// paste the output of the map editor's export.
var Coordinates = map[string]types.Point{
	// Green-E Line
	"place-rvrwy": {X: 292.7, Y: 442.8}, // Riverway
	"place-bckhl": {X: 282.7, Y: 451.3}, // Back of the Hill
	"place-hsmnl": {X: 268.3, Y: 466.4}, // Heath Street
	"place-mfa":   {X: 348.3, Y: 385.2}, // Museum of Fine Arts
	"place-nuniv": {X: 359.7, Y: 375.7}, // Northeastern University
	"place-symcl": {X: 367.7, Y: 365.6}, // Symphony
	"place-prmnl": {X: 370, Y: 333.7},   // Prudential
	"place-boyls": {X: 471.3, Y: 293.7}, // Boylston
	"place-armnl": {X: 430.3, Y: 298.7}, // Arlington
	"place-coecl": {X: 394.3, Y: 299.5}, // Copley
	"place-mispk": {X: 304.7, Y: 429.6}, // Mission Park
	"place-fenwd": {X: 315.7, Y: 418.3}, // Fenwood Road
	"place-brmnl": {X: 325.7, Y: 406.3}, // Brigham Circle
	"place-lngmd": {X: 338, Y: 397.2},   // Longwood Medical Area
	// "place-gover": {X: 535.5, Y: 229.4}, // Government Center
	// "place-haecl": {X: 556.5, Y: 198.3}, // Haymarket
	// "place-north": {X: 556, Y: 176.6}, // North Station
	"place-spmnl": {X: 545.3, Y: 155.2}, // Science Park/West End
	"place-lech":  {X: 528, Y: 137.8},   // Lechmere
	"place-esomr": {X: 485.3, Y: 95.4},  // East Somerville
	"place-gilmn": {X: 465.3, Y: 74.7},  // Gilman Square
	"place-mgngl": {X: 446, Y: 55.5},    // Magoun Square
	"place-balsq": {X: 425.7, Y: 35.9},  // Ball Square
	"place-mdftf": {X: 407.3, Y: 17.6},  // Medford/Tufts

	// Orange Line
	"place-forhl": {X: 268.6, Y: 567.7}, // Forest Hills
	"place-grnst": {X: 295.5, Y: 540.1}, // Green Street
	"place-sbmnl": {X: 321.7, Y: 513.5}, // Stony Brook
	"place-jaksn": {X: 349.4, Y: 485.5}, // Jackson Square
	"place-rcmnl": {X: 376.6, Y: 459.6}, // Roxbury Crossing
	"place-rugg":  {X: 398.8, Y: 437.9}, // Ruggles
	"place-masta": {X: 419.2, Y: 416.6}, // Massachusetts Avenue
	"place-bbsta": {X: 441, Y: 395},     // Back Bay
	"place-chncl": {X: 506.1, Y: 330.1}, // Chinatown
	"place-tumnl": {X: 473.4, Y: 362},   // Tufts Medical Center
	"place-state": {X: 566, Y: 257.8},   // State
	"place-haecl": {X: 560, Y: 198.7},   // Haymarket
	"place-north": {X: 560.5, Y: 176.7}, // North Station
	"place-ccmnl": {X: 566.5, Y: 110.8}, // Community College
	"place-sull":  {X: 566, Y: 87.5},    // Sullivan Square
	"place-astao": {X: 566.5, Y: 65.1},  // Assembly
	"place-welln": {X: 567, Y: 40.3},    // Wellington
	"place-mlmnl": {X: 567, Y: 18.4},    // Malden Center
	"place-ogmnl": {X: 567, Y: -4.5},    // Oak Grove

	// Red Line
	"place-pktrm": {X: 503, Y: 262.3},   // Park Street
	"place-alfcl": {X: 291.4, Y: 50.3},  // Alewife
	"place-davis": {X: 322.6, Y: 81.8},  // Davis
	"place-portr": {X: 352.2, Y: 111.5}, // Porter
	"place-harsq": {X: 381.4, Y: 140.4}, // Harvard
	"place-cntsq": {X: 411, Y: 168.2},   // Central
	"place-knncl": {X: 438.6, Y: 196.8}, // Kendall/MIT
	"place-chmnl": {X: 474.2, Y: 231.6}, // Charles/MGH
	"place-dwnxg": {X: 538.2, Y: 297.1}, // Downtown Crossing
	"place-sstat": {X: 573, Y: 331.5},   // South Station
	"place-brdwy": {X: 601, Y: 409.2},   // Broadway
	"place-andrw": {X: 600.2, Y: 442.9}, // Andrew
	"place-jfk":   {X: 600.2, Y: 476.5}, // JFK/UMass
	"place-shmnl": {X: 563.8, Y: 567.3}, // Savin Hill
	"place-smmnl": {X: 563.4, Y: 598.5}, // Shawmut
	"place-fldcr": {X: 563.4, Y: 582.4}, // Fields Corner
	// "place-asmnl": {X: 563, Y: 614.6}, // Ashmont
	"place-nqncy": {X: 653, Y: 573.2},   // North Quincy
	"place-wlsta": {X: 676.6, Y: 597.7}, // Wollaston
	"place-qnctr": {X: 700.6, Y: 619.3}, // Quincy Center
	"place-qamnl": {X: 717.4, Y: 645.3}, // Quincy Adams
	"place-brntn": {X: 718.6, Y: 679.8}, // Braintree

	// Mattapan Line
	"place-cedgr": {X: 564.3, Y: 641.6}, // Cedar Grove
	"place-asmnl": {X: 563.5, Y: 618.7}, // Ashmont
	"place-butlr": {X: 561.7, Y: 660.3}, // Butler
	"place-miltt": {X: 542.5, Y: 661.6}, // Milton
	"place-cenav": {X: 525.7, Y: 662},   // Central Avenue
	"place-valrd": {X: 507.9, Y: 662.3}, // Valley Road
	"place-capst": {X: 491.2, Y: 662.3}, // Capen Street
	"place-matt":  {X: 473.4, Y: 662},   // Mattapan

	// Blue Line
	"place-gover": {X: 535.5, Y: 229.4}, // Government Center
	"place-bomnl": {X: 513, Y: 209.2},   // Bowdoin
	"place-aqucl": {X: 598.5, Y: 229.5}, // Aquarium
	"place-mvbcl": {X: 642.8, Y: 185.3}, // Maverick
	"place-aport": {X: 665.7, Y: 163},   // Airport
	"place-wimnl": {X: 688.3, Y: 139.7}, // Wood Island
	"place-orhte": {X: 710.8, Y: 117},   // Orient Heights
	"place-sdmnl": {X: 732.6, Y: 95.1},  // Suffolk Downs
	"place-bmmnl": {X: 755.2, Y: 72.8},  // Beachmont
	"place-rbmnl": {X: 778.1, Y: 49.1},  // Revere Beach
	"place-wondl": {X: 800.6, Y: 27.5},  // Wonderland

	// Green-D Line
	"place-river": {X: 130.7, Y: 477.2}, // Riverside
	"place-woodl": {X: 145.7, Y: 462.8}, // Woodland
	"place-waban": {X: 157.3, Y: 449.1}, // Waban
	"place-eliot": {X: 171, Y: 436.6},   // Eliot
	"place-newtn": {X: 184.3, Y: 423.1}, // Newton Highlands
	"place-newto": {X: 197.7, Y: 410.6}, // Newton Centre
	"place-chhil": {X: 210.7, Y: 397.2}, // Chestnut Hill
	"place-rsmnl": {X: 224.3, Y: 383.8}, // Reservoir
	"place-bcnfd": {X: 237.3, Y: 371.3}, // Beaconsfield
	"place-brkhl": {X: 249.3, Y: 357.5}, // Brookline Hills
	"place-bvmnl": {X: 262.7, Y: 345},   // Brookline Village
	"place-longw": {X: 275.7, Y: 330.7}, // Longwood
	"place-fenwy": {X: 289.7, Y: 317.9}, // Fenway
	"place-kencl": {X: 322.7, Y: 298.6}, // Kenmore
	"place-hymnl": {X: 359, Y: 298},     // Hynes Convention Center
	"place-unsqu": {X: 466.7, Y: 124.1}, // Union Square

	// Green-C Line
	"place-clmnl": {X: 95, Y: 389},      // Cleveland Circle
	"place-engav": {X: 109, Y: 374.6},   // Englewood Avenue
	"place-denrd": {X: 122.3, Y: 360.9}, // Dean Road
	"place-tapst": {X: 135, Y: 348.1},   // Tappan Street
	"place-bcnwa": {X: 148, Y: 334},     // Washington Square
	"place-fbkst": {X: 162, Y: 321.8},   // Fairbanks Street
	"place-bndhl": {X: 175.3, Y: 308.7}, // Brandon Hall
	"place-sumav": {X: 188.7, Y: 294.4}, // Summit Avenue
	"place-cool":  {X: 201.7, Y: 282.5}, // Coolidge Corner
	"place-stpul": {X: 214.7, Y: 269.7}, // Saint Paul Street
	"place-kntst": {X: 233.7, Y: 259.3}, // Kent Street
	"place-hwsst": {X: 252.3, Y: 269},   // Hawes Street
	"place-smary": {X: 265, Y: 280.9},   // Saint Mary's Street

	// Green-B Line
	"place-lake":  {X: 63.2, Y: 308.5},  // Boston College
	"place-sougr": {X: 77, Y: 294.7},    // South Street
	"place-chill": {X: 90.3, Y: 280.9},  // Chestnut Hill Avenue
	"place-chswk": {X: 103.3, Y: 267.8}, // Chiswick Road
	"place-sthld": {X: 117, Y: 254.7},   // Sutherland Road
	"place-wascm": {X: 130, Y: 241.3},   // Washington Street
	"place-wrnst": {X: 143.3, Y: 227.6}, // Warren Street
	"place-alsgr": {X: 156.7, Y: 214.7}, // Allston Street
	"place-grigg": {X: 170, Y: 202.8},   // Griggs Street
	"place-harvd": {X: 191, Y: 189.1},   // Harvard Avenue
	"place-brico": {X: 213, Y: 202.5},   // Packard's Corner
	"place-babck": {X: 227, Y: 216.6},   // Babcock Street
	"place-amory": {X: 239, Y: 227.9},   // Amory Street
	"place-buest": {X: 266, Y: 255},     // Boston University East
	"place-bucen": {X: 252, Y: 242.2},   // Boston University Central
	"place-bland": {X: 280, Y: 268.7},   // Blandford Street

	// Map stations with the editor at /map-editor and paste the export here.
}
