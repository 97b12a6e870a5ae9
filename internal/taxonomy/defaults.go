package taxonomy

// Default tables mirror the RASFF portal taxonomy. Keep the order: it is the
// tie-break for overlapping keys.

func defaultProductEntries() []Entry {
	return []Entry{
		{"alcoholic beverages", "Alcoholic Beverages", "Beverages", "Boissons alcoolisées"},
		{"animal by-products", "Animal By-products", "Animal Products", "Sous-produits animaux"},
		{"bivalve molluscs and products thereof", "Bivalve Molluscs", "Seafood", "Mollusques bivalves et leurs produits"},
		{"cephalopods and products thereof", "Cephalopods", "Seafood", "Céphalopodes et leurs produits"},
		{"cereals and bakery products", "Cereals and Bakery Products", "Grains and Bakery", "Céréales et produits de boulangerie"},
		{"cocoa and cocoa preparations, coffee and tea", "Cocoa, Coffee, and Tea", "Beverages", "Cacao et préparations de cacao, café et thé"},
		{"compound feeds", "Compound Feeds", "Animal Feed", "Aliments composés"},
		{"confectionery", "Confectionery", "Grains and Bakery", "Confiserie"},
		{"crustaceans and products thereof", "Crustaceans", "Seafood", "Crustacés et leurs produits"},
		{"dietetic foods, food supplements and fortified foods", "Dietetic Foods and Supplements", "Specialty Foods", "Aliments diététiques, compléments alimentaires et aliments enrichis"},
		{"eggs and egg products", "Eggs and Egg Products", "Animal Products", "Œufs et produits à base d'œufs"},
		{"fats and oils", "Fats and Oils", "Fats and Oils", "Graisses et huiles"},
		{"feed additives", "Feed Additives", "Animal Feed", "Additifs pour l'alimentation animale"},
		{"feed materials", "Feed Materials", "Animal Feed", "Matières premières pour aliments"},
		{"feed premixtures", "Feed Premixtures", "Animal Feed", "Prémélanges pour aliments"},
		{"fish and fish products", "Fish and Fish Products", "Seafood", "Poissons et produits à base de poissons"},
		{"food additives and flavourings", "Food Additives and Flavourings", "Additives", "Additifs alimentaires et arômes"},
		{"food contact materials", "Food Contact Materials", "Packaging", "Matériaux en contact avec les aliments"},
		{"fruits and vegetables", "Fruits and Vegetables", "Fruits and Vegetables", "Fruits et légumes"},
		{"gastropods", "Gastropods", "Seafood", "Gastéropodes"},
		{"herbs and spices", "Herbs and Spices", "Spices", "Herbes et épices"},
		{"honey and royal jelly", "Honey and Royal Jelly", "Specialty Foods", "Miel et gelée royale"},
		{"ices and desserts", "Ices and Desserts", "Grains and Bakery", "Glaces et desserts"},
		{"live animals", "Live Animals", "Animal Products", "Animaux vivants"},
		{"meat and meat products (other than poultry)", "Meat (Non-Poultry)", "Meat Products", "Viande et produits carnés (autres que volaille)"},
		{"milk and milk products", "Milk and Milk Products", "Dairy", "Lait et produits laitiers"},
		{"natural mineral waters", "Natural Mineral Waters", "Beverages", "Eaux minérales naturelles"},
		{"non-alcoholic beverages", "Non-Alcoholic Beverages", "Beverages", "Boissons non alcoolisées"},
		{"nuts, nut products and seeds", "Nuts and Seeds", "Seeds and Nuts", "Noix, produits à base de noix et graines"},
		{"other food product / mixed", "Mixed Food Products", "Other", "Autres produits alimentaires / mixtes"},
		{"pet food", "Pet Food", "Animal Feed", "Aliments pour animaux de compagnie"},
		{"plant protection products", "Plant Protection Products", "Additives", "Produits de protection des plantes"},
		{"poultry meat and poultry meat products", "Poultry Meat", "Meat Products", "Viande de volaille et produits à base de viande de volaille"},
		{"prepared dishes and snacks", "Prepared Dishes and Snacks", "Prepared Foods", "Plats préparés et snacks"},
		{"soups, broths, sauces and condiments", "Soups, Broths, Sauces", "Prepared Foods", "Soupes, bouillons, sauces et condiments"},
		{"water for human consumption (other)", "Water (Human Consumption)", "Beverages", "Eau pour la consommation humaine (autres)"},
		{"wine", "Wine", "Beverages", "Vin"},
	}
}

func defaultHazardEntries() []Entry {
	return []Entry{
		{Key: "GMO / novel food", Category: "GMO / Novel Food", Group: "Food Composition"},
		{Key: "TSEs", Category: "Transmissible Spongiform Encephalopathies (TSEs)", Group: "Biological Hazard"},
		{Key: "adulteration / fraud", Category: "Adulteration / Fraud", Group: "Food Fraud"},
		{Key: "allergens", Category: "Allergens", Group: "Biological Hazard"},
		{Key: "biological contaminants", Category: "Biological Contaminants", Group: "Biological Hazard"},
		{Key: "biotoxins (other)", Category: "Biotoxins", Group: "Biological Hazard"},
		{Key: "chemical contamination (other)", Category: "Chemical Contamination", Group: "Chemical Hazard"},
		{Key: "composition", Category: "Composition", Group: "Food Composition"},
		{Key: "environmental pollutants", Category: "Environmental Pollutants", Group: "Chemical Hazard"},
		{Key: "feed additives", Category: "Feed Additives", Group: "Chemical Hazard"},
		{Key: "food additives and flavourings", Category: "Food Additives and Flavourings", Group: "Additives"},
		{Key: "foreign bodies", Category: "Foreign Bodies", Group: "Physical Hazard"},
		{Key: "genetically modified", Category: "Genetically Modified", Group: "Food Composition"},
		{Key: "heavy metals", Category: "Heavy Metals", Group: "Chemical Hazard"},
		{Key: "industrial contaminants", Category: "Industrial Contaminants", Group: "Chemical Hazard"},
		{Key: "labelling absent/incomplete/incorrect", Category: "Labelling Issues", Group: "Food Fraud"},
		{Key: "migration", Category: "Migration", Group: "Chemical Hazard"},
		{Key: "mycotoxins", Category: "Mycotoxins", Group: "Biological Hazard"},
		{Key: "natural toxins (other)", Category: "Natural Toxins", Group: "Biological Hazard"},
		{Key: "non-pathogenic micro-organisms", Category: "Non-Pathogenic Micro-organisms", Group: "Biological Hazard"},
		{Key: "not determined (other)", Category: "Not Determined", Group: "Other"},
		{Key: "novel food", Category: "Novel Food", Group: "Food Composition"},
		{Key: "organoleptic aspects", Category: "Organoleptic Aspects", Group: "Other"},
		{Key: "packaging defective / incorrect", Category: "Packaging Issues", Group: "Physical Hazard"},
		{Key: "parasitic infestation", Category: "Parasitic Infestation", Group: "Biological Hazard"},
		{Key: "pathogenic micro-organisms", Category: "Pathogenic Micro-organisms", Group: "Biological Hazard"},
		{Key: "pesticide residues", Category: "Pesticide Residues", Group: "Pesticide Hazard"},
		{Key: "poor or insufficient controls", Category: "Insufficient Controls", Group: "Food Fraud"},
		{Key: "radiation", Category: "Radiation", Group: "Physical Hazard"},
		{Key: "residues of veterinary medicinal", Category: "Veterinary Medicinal Residues", Group: "Chemical Hazard"},
	}
}

func defaultHazardVocabulary() []string {
	return []string{
		"mycotoxins",
		"aflatoxins",
		"ochratoxin a",
		"salmonella",
		"listeria monocytogenes",
		"escherichia coli",
		"norovirus",
		"pesticide residues",
		"ethylene oxide",
		"chlorpyrifos",
		"heavy metals",
		"mercury",
		"cadmium",
		"allergens",
		"gluten",
		"sulphite",
		"foreign bodies",
		"glass fragments",
		"metal fragments",
		"histamine",
		"sudan dyes",
		"dioxins",
		"mineral oil",
		"acrylamide",
		"tropane alkaloids",
		"pyrrolizidine alkaloids",
		"bacillus cereus",
		"anisakis",
		"moulds",
		"migration",
		"novel food",
		"veterinary medicinal residues",
	}
}

// substance descriptions appended after the category keys for the resolver
func extraHazardDescriptions() []Description {
	return []Description{
		{Category: "Mycotoxins", Description: "aflatoxin"},
		{Category: "Mycotoxins", Description: "ochratoxin"},
		{Category: "Mycotoxins", Description: "deoxynivalenol"},
		{Category: "Mycotoxins", Description: "fumonisin"},
		{Category: "Mycotoxins", Description: "patulin"},
		{Category: "Pathogenic Micro-organisms", Description: "salmonella"},
		{Category: "Pathogenic Micro-organisms", Description: "listeria"},
		{Category: "Pathogenic Micro-organisms", Description: "escherichia coli"},
		{Category: "Pathogenic Micro-organisms", Description: "norovirus"},
		{Category: "Pathogenic Micro-organisms", Description: "bacillus cereus"},
		{Category: "Pesticide Residues", Description: "ethylene oxide"},
		{Category: "Pesticide Residues", Description: "chlorpyrifos"},
		{Category: "Pesticide Residues", Description: "pesticide"},
		{Category: "Heavy Metals", Description: "mercury"},
		{Category: "Heavy Metals", Description: "cadmium"},
		{Category: "Heavy Metals", Description: "arsenic"},
		{Category: "Allergens", Description: "gluten"},
		{Category: "Allergens", Description: "sulphite"},
		{Category: "Allergens", Description: "undeclared"},
		{Category: "Foreign Bodies", Description: "glass"},
		{Category: "Foreign Bodies", Description: "metal fragment"},
		{Category: "Natural Toxins", Description: "histamine"},
		{Category: "Natural Toxins", Description: "alkaloid"},
		{Category: "Environmental Pollutants", Description: "dioxin"},
		{Category: "Industrial Contaminants", Description: "mineral oil"},
		{Category: "Industrial Contaminants", Description: "acrylamide"},
		{Category: "Parasitic Infestation", Description: "anisakis"},
		{Category: "Non-Pathogenic Micro-organisms", Description: "mould"},
		{Category: "Adulteration / Fraud", Description: "sudan"},
	}
}
