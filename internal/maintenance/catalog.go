package maintenance

import (
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/domain"
)

// catalog is the static preventive-maintenance plan table. It is read
// only; traversal lives in plan.go.
var catalog = map[domain.MachineType]Plan{
	domain.MachineRoller: {
		DisplayName:   "Vibratory Soil Compactor (CS/CP Series)",
		ReferenceLink: "https://www.cat.com/en_US/support/maintenance/compactors.html",
		intervals: map[IntervalKey]Interval{
			IntervalDaily: {
				Key:   IntervalDaily,
				Label: "Every 10 Service Hours or Daily",
				Groups: []TaskGroup{
					{
						Title: "Engine",
						Tasks: []string{
							"Check engine oil level",
							"Check cooling system coolant level",
							"Drain fuel system water separator",
						},
					},
					{
						Title: "Machine",
						Tasks: []string{
							"Inspect drum and scraper bars for wear or damage",
							"Check hydraulic system oil level",
							"Inspect tires for damage and correct inflation",
							"Test backup alarm and horn",
							"Walk around the machine looking for visible leaks",
						},
					},
				},
			},
			Interval50h: {
				Key:   Interval50h,
				Label: "Every 50 Service Hours or Weekly",
				Groups: []TaskGroup{
					{
						Title: "Lubrication",
						Tasks: []string{
							"Lubricate articulation hitch bearings",
							"Lubricate steering cylinder pins",
							"Check eccentric weight housing oil level",
						},
					},
				},
			},
			Interval250h: {
				Key:   Interval250h,
				Label: "Every 250 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Engine",
						Tasks: []string{
							"Change engine oil and filter",
							"Obtain engine oil sample for S·O·S analysis",
							"Check belt tension and condition",
						},
					},
					{
						Title: "Drive Train",
						Tasks: []string{
							"Check axle oil level",
							"Check vibratory support oil level",
						},
					},
				},
			},
			Interval500h: {
				Key:   Interval500h,
				Label: "Every 500 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Fuel and Filters",
						Tasks: []string{
							"Replace fuel system filters (primary and secondary)",
							"Replace engine air filter primary element",
							"Clean crankcase breather",
						},
					},
					{
						Title: "Hydraulics",
						Tasks: []string{
							"Obtain hydraulic oil sample for analysis",
							"Inspect hoses and fittings for chafing and seepage",
						},
					},
				},
			},
			Interval1000h: {
				Key:   Interval1000h,
				Label: "Every 1000 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Drive Train",
						Tasks: []string{
							"Change axle oil",
							"Change eccentric weight housing oil",
							"Change vibratory support oil",
						},
					},
					{
						Title: "Hydraulics",
						Tasks: []string{
							"Replace hydraulic system return filter",
						},
					},
				},
			},
			Interval2000h: {
				Key:   Interval2000h,
				Label: "Every 2000 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Hydraulics and Cooling",
						Tasks: []string{
							"Change hydraulic system oil",
							"Replace cooling system coolant extender",
							"Check engine valve lash",
						},
					},
				},
			},
			IntervalSummary: {
				Key:   IntervalSummary,
				Label: "Plan Summary",
				Groups: []TaskGroup{
					{
						Title: "Checkpoints",
						Tasks: []string{
							"Daily: levels, leaks, drum and scrapers",
							"50 h: hitch and cylinder lubrication",
							"250 h: engine oil and filter, axle levels",
							"500 h: fuel and air filters, hose inspection",
							"1000 h: drive-train oils, hydraulic filter",
							"2000 h: hydraulic oil, coolant extender, valve lash",
						},
					},
				},
			},
		},
	},

	domain.MachineWheelLoader: {
		DisplayName:   "Medium Wheel Loader (950/962 Series)",
		ReferenceLink: "https://www.cat.com/en_US/support/maintenance/wheel-loaders.html",
		intervals: map[IntervalKey]Interval{
			IntervalDaily: {
				Key:   IntervalDaily,
				Label: "Every 10 Service Hours or Daily",
				Groups: []TaskGroup{
					{
						Title: "Engine",
						Tasks: []string{
							"Check engine oil level",
							"Check cooling system coolant level",
							"Drain fuel tank water and sediment",
						},
					},
					{
						Title: "Machine",
						Tasks: []string{
							"Check transmission oil level",
							"Check hydraulic system oil level",
							"Inspect bucket cutting edges and tips for wear",
							"Inspect tires and rims, check inflation",
							"Test service brakes, indicators and gauges",
							"Grease bucket linkage pins (severe applications)",
						},
					},
				},
			},
			Interval50h: {
				Key:   Interval50h,
				Label: "Every 50 Service Hours or Weekly",
				Groups: []TaskGroup{
					{
						Title: "Lubrication",
						Tasks: []string{
							"Lubricate loader linkage bearings",
							"Lubricate articulation hitch bearings",
							"Lubricate steering cylinder bearings",
							"Clean cab air filter",
						},
					},
				},
			},
			Interval100h: {
				Key:   Interval100h,
				Label: "Every 100 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Lubrication",
						Tasks: []string{
							"Lubricate axle oscillation bearings",
							"Lubricate driveshaft support bearing",
						},
					},
				},
			},
			Interval250h: {
				Key:   Interval250h,
				Label: "Every 250 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Engine",
						Tasks: []string{
							"Change engine oil and filter",
							"Obtain fluid samples for S·O·S analysis (engine, transmission, hydraulic, axles)",
							"Check batteries and battery cables",
						},
					},
					{
						Title: "Brakes",
						Tasks: []string{
							"Test braking system holding ability",
							"Check axle oil level",
						},
					},
				},
			},
			Interval500h: {
				Key:   Interval500h,
				Label: "Every 500 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Fuel and Filters",
						Tasks: []string{
							"Replace primary and secondary fuel filters",
							"Replace transmission oil filter",
							"Clean or replace engine air filter elements",
						},
					},
				},
			},
			Interval1000h: {
				Key:   Interval1000h,
				Label: "Every 1000 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Drive Train",
						Tasks: []string{
							"Change transmission oil",
							"Inspect rollover protective structure (ROPS) mounting",
							"Check loader frame and bucket for structural cracks",
						},
					},
				},
			},
			Interval2000h: {
				Key:   Interval2000h,
				Label: "Every 2000 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Hydraulics",
						Tasks: []string{
							"Change hydraulic system oil and breather",
							"Change axle oil (front and rear)",
							"Check engine valve lash and injector timing",
						},
					},
				},
			},
			Interval3000h: {
				Key:   Interval3000h,
				Label: "Every 3000 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Cooling",
						Tasks: []string{
							"Replace cooling system thermostat",
							"Add cooling system extender or change coolant",
						},
					},
				},
			},
			Interval6000h: {
				Key:   Interval6000h,
				Label: "Every 6000 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Overhaul Items",
						Tasks: []string{
							"Change cooling system coolant (ELC)",
							"Inspect alternator and starter",
							"Rebuild or replace hydraulic cylinders as indicated by S·O·S trends",
						},
					},
				},
			},
			IntervalSummary: {
				Key:   IntervalSummary,
				Label: "Plan Summary",
				Groups: []TaskGroup{
					{
						Title: "Checkpoints",
						Tasks: []string{
							"Daily: levels, tires, brakes, bucket wear",
							"50 h: linkage and hitch lubrication",
							"100 h: oscillation and driveshaft lubrication",
							"250 h: engine oil, S·O·S samples, brake test",
							"500 h: fuel and transmission filters",
							"1000 h: transmission oil, structural inspection",
							"2000 h: hydraulic and axle oils, valve lash",
							"3000 h: thermostat, coolant extender",
							"6000 h: coolant change, overhaul inspection",
						},
					},
				},
			},
		},
	},

	domain.MachineExcavator: {
		DisplayName:   "Hydraulic Excavator (320 Series)",
		ReferenceLink: "https://www.cat.com/en_US/support/maintenance/excavators.html",
		intervals: map[IntervalKey]Interval{
			IntervalDaily: {
				Key:   IntervalDaily,
				Label: "Every 10 Service Hours or Daily",
				Groups: []TaskGroup{
					{
						Title: "Engine",
						Tasks: []string{
							"Check engine oil level",
							"Check coolant level in the sight gauge",
							"Drain water separator",
						},
					},
					{
						Title: "Undercarriage and Front Linkage",
						Tasks: []string{
							"Check hydraulic system oil level",
							"Inspect track tension and shoe hardware",
							"Grease boom, stick and bucket linkage (first 100 hours, then per chart)",
							"Inspect bucket teeth and side cutters",
							"Check travel alarm operation",
						},
					},
				},
			},
			Interval50h: {
				Key:   Interval50h,
				Label: "Every 50 Service Hours or Weekly",
				Groups: []TaskGroup{
					{
						Title: "Lubrication",
						Tasks: []string{
							"Grease bucket linkage bearings",
							"Drain fuel tank water and sediment",
						},
					},
				},
			},
			Interval100h: {
				Key:   Interval100h,
				Label: "Every 100 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Lubrication",
						Tasks: []string{
							"Grease boom and stick linkage bearings",
						},
					},
				},
			},
			Interval250h: {
				Key:   Interval250h,
				Label: "Every 250 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Engine",
						Tasks: []string{
							"Change engine oil and filter",
							"Obtain S·O·S fluid samples",
							"Check swing drive oil level",
						},
					},
				},
			},
			Interval500h: {
				Key:   Interval500h,
				Label: "Every 500 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Filters",
						Tasks: []string{
							"Replace fuel system filters",
							"Replace hydraulic return filter (severe conditions)",
							"Clean or replace engine air filter elements",
							"Grease swing bearing and check swing gear grease",
						},
					},
				},
			},
			Interval1000h: {
				Key:   Interval1000h,
				Label: "Every 1000 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Drive Train",
						Tasks: []string{
							"Change swing drive oil",
							"Check final drive oil level and condition",
							"Replace hydraulic tank breather",
						},
					},
				},
			},
			Interval2000h: {
				Key:   Interval2000h,
				Label: "Every 2000 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Hydraulics",
						Tasks: []string{
							"Change final drive oil",
							"Replace pilot system filter",
							"Check engine valve lash",
						},
					},
				},
			},
			Interval6000h: {
				Key:   Interval6000h,
				Label: "Every 6000 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Overhaul Items",
						Tasks: []string{
							"Change hydraulic system oil (with S·O·S confirmation)",
							"Change cooling system coolant (ELC)",
						},
					},
				},
			},
			IntervalLongTerm: {
				Key:   IntervalLongTerm,
				Label: "Long-Term / Condition-Based",
				Groups: []TaskGroup{
					{
						Title: "Condition Monitoring",
						Tasks: []string{
							"Track undercarriage wear measurements each 1000 hours",
							"Schedule pump performance test at 8000 hours",
							"Plan boom and stick bearing replacement from S·O·S and play measurements",
						},
					},
				},
			},
			IntervalSummary: {
				Key:   IntervalSummary,
				Label: "Plan Summary",
				Groups: []TaskGroup{
					{
						Title: "Checkpoints",
						Tasks: []string{
							"Daily: levels, tracks, linkage grease, teeth",
							"50 h: bucket linkage, fuel tank drain",
							"100 h: boom and stick linkage",
							"250 h: engine oil, S·O·S samples, swing drive level",
							"500 h: fuel filters, air filter, swing bearing grease",
							"1000 h: swing drive oil, breather",
							"2000 h: final drive oil, pilot filter, valve lash",
							"6000 h: hydraulic oil, coolant",
							"Long term: undercarriage and pump condition monitoring",
						},
					},
				},
			},
		},
	},

	domain.MachineTractor: {
		DisplayName:   "Track-Type Tractor (D6 Series)",
		ReferenceLink: "https://www.cat.com/en_US/support/maintenance/dozers.html",
		intervals: map[IntervalKey]Interval{
			IntervalDaily: {
				Key:   IntervalDaily,
				Label: "Every 10 Service Hours or Daily",
				Groups: []TaskGroup{
					{
						Title: "Engine",
						Tasks: []string{
							"Check engine oil level",
							"Check coolant level",
							"Drain fuel system water separator",
						},
					},
					{
						Title: "Undercarriage",
						Tasks: []string{
							"Check power train oil level",
							"Check hydraulic system oil level",
							"Inspect track tension, rollers and idlers",
							"Inspect blade cutting edges and end bits",
							"Test steering, brakes and backup alarm",
						},
					},
				},
			},
			Interval50h: {
				Key:   Interval50h,
				Label: "Every 50 Service Hours or Weekly",
				Groups: []TaskGroup{
					{
						Title: "Lubrication",
						Tasks: []string{
							"Lubricate blade tilt cylinder pins",
							"Lubricate ripper linkage (if equipped)",
							"Clean cab fresh-air filter",
						},
					},
				},
			},
			Interval250h: {
				Key:   Interval250h,
				Label: "Every 250 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Engine",
						Tasks: []string{
							"Change engine oil and filter",
							"Obtain S·O·S samples (engine, power train, hydraulic, final drives)",
							"Check belt and fan condition",
						},
					},
					{
						Title: "Final Drives",
						Tasks: []string{
							"Check final drive oil level",
							"Check pivot shaft oil level",
						},
					},
				},
			},
			Interval500h: {
				Key:   Interval500h,
				Label: "Every 500 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Filters",
						Tasks: []string{
							"Replace fuel system filters",
							"Replace power train oil filter",
							"Clean or replace engine air filter elements",
						},
					},
				},
			},
			Interval1000h: {
				Key:   Interval1000h,
				Label: "Every 1000 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Power Train",
						Tasks: []string{
							"Change power train oil and clean magnetic screen",
							"Change final drive oil",
							"Inspect ROPS mounting hardware",
						},
					},
				},
			},
			Interval2000h: {
				Key:   Interval2000h,
				Label: "Every 2000 Service Hours",
				Groups: []TaskGroup{
					{
						Title: "Hydraulics",
						Tasks: []string{
							"Change hydraulic system oil and filter",
							"Change pivot shaft oil",
							"Check engine valve lash",
						},
					},
				},
			},
			IntervalLongTerm: {
				Key:   IntervalLongTerm,
				Label: "Long-Term / Condition-Based",
				Groups: []TaskGroup{
					{
						Title: "Condition Monitoring",
						Tasks: []string{
							"Measure undercarriage wear (links, bushings, sprockets) every 1000 hours",
							"Plan bushing turn from wear measurements",
							"Schedule power train oil analysis trend review",
						},
					},
				},
			},
			IntervalSummary: {
				Key:   IntervalSummary,
				Label: "Plan Summary",
				Groups: []TaskGroup{
					{
						Title: "Checkpoints",
						Tasks: []string{
							"Daily: levels, undercarriage, blade edges",
							"50 h: blade and ripper lubrication",
							"250 h: engine oil, S·O·S samples, final drive levels",
							"500 h: fuel and power-train filters",
							"1000 h: power train and final drive oils",
							"2000 h: hydraulic oil, pivot shaft oil, valve lash",
							"Long term: undercarriage wear program",
						},
					},
				},
			},
		},
	},
}
