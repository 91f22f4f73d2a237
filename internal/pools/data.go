package pools

// Default builds the stock registry. The sentences are data, not logic: they
// model a confused, slow, elderly victim and are tuned to keep a scammer
// typing while volunteering nothing.
func Default() *Registry {
	return &Registry{
		Initial: Pool{
			Name: "initial-confusion",
			Sentences: []string{
				"Hello sir, I don't understand this tech stuff. What do I do next?",
				"Excuse me, who is this speaking? Is this real or fake?",
				"Oh my god, my screen is frozen. Guide me step by step please.",
				"Sorry for delay, my phone is very slow. What is this about?",
				"I am confused, typing is very hard for me. Please explain slowly.",
				"One second, my glasses were missing. Now what is this message?",
				"My grandson is not here so please help me, I am reading this.",
				"Wait, network is 1 bar only. Can you say that once more?",
				"Okay I understand but how do I get the prize money?",
				"Just a moment, battery is 2 percent. Why are you messaging me?",
				"Tech is hard for me, is this from the company directly?",
				"Hold on, I am new to this phone. What should I press?",
			},
		},
		Extraction: Pool{
			Name: "extraction-probing",
			Sentences: []string{
				"Okay I will try to pay. Which account number do I send to exactly?",
				"My son will do the transfer. Write the full UPI ID for him please.",
				"The link is not opening here. Type the whole address again slowly.",
				"Bank asked me for the beneficiary details. What name and number do I give?",
				"Can you send your phone number? The chat keeps disconnecting on me.",
				"I am at the bank branch now. They want the IFSC code and account, tell me.",
				"GPay is asking 'send to which ID'. Spell it letter by letter for me.",
				"Before I pay, message me the exact amount and the account once more.",
				"My nephew says he can help if you share the official website address.",
				"I wrote it down wrong I think. Repeat the number digit by digit.",
				"Which bank is the account in? The form here is asking me that.",
				"Should I save your number? Give me the one with country code.",
			},
		},
		Stalling: Pool{
			Name: "stalling",
			Sentences: []string{
				"Let me find my charger, don't cut the chat. It is loading...",
				"Someone is at the door, just one minute please. Waiting for you.",
				"Going to balcony for signal. Are you there?",
				"Asking my neighbor for help, hold on. Did you get that?",
				"Restarting my phone, wait. Still trying...",
				"Wait, searching for glasses. Can you hear me?",
				"Hold on, internet buffering. Please reply.",
				"Let me write this down first. Reply fast.",
				"My daughter is calling on other phone, two minutes. Don't go.",
				"The screen went dark, pressing buttons now. Hello?",
			},
		},
		questions: map[Topic]Pool{
			TopicAccount: {
				Name: "account",
				Sentences: []string{
					"I cannot find my passbook number. Is this for my SBI or HDFC account?",
					"Listen, the IFSC code you gave is showing invalid. Check it please.",
					"Manager said never share OTP on call. Can I go to the branch and do this?",
					"Actually my ATM card is broken. Is there another way for the transfer?",
					"Internet banking is locked, wait. Will you send your account instead?",
					"I am scared to lose my pension money. Is there a charge for this?",
					"My account balance is showing zero? What did you do sir?",
					"Which branch should I visit? The nearby one closed last year.",
					"Wait, the bank app wants a beneficiary name. What do I type?",
				},
			},
			TopicPaymentID: {
				Name: "payment-id",
				Sentences: []string{
					"My GPay is showing 'Server Error' red circle. What now?",
					"PhonePe is asking for my PIN but screen is black. Help me.",
					"I typed the amount but the button is grey. Is that normal?",
					"Paytm says 'KYC pending' suddenly. Did you do something?",
					"It asks me, is this a Merchant account? What do I answer?",
					"Can I send 10 rupees first to check it works?",
					"The QR code is not scanning clearly. Send your UPI ID in text?",
					"It says 'Payment Declined' but money is gone? I am worried.",
					"Do I enter PIN on the incoming request? My son said never do that.",
				},
			},
			TopicLink: {
				Name: "link",
				Sentences: []string{
					"The blue link is not opening. Can you send it again properly?",
					"My phone says 'Malware Detected' when I click. Is it safe?",
					"Screen went white after clicking. What should happen?",
					"It is asking to download an APK file? I am not sure about this.",
					"Chrome is blocking this site. Is this the official gov portal?",
					"It redirected to a betting site I think. Send the right one.",
					"Do I need to update my browser first? It is very old.",
					"The website text is very small. Read me what it says.",
					"One second, the page keeps spinning. Is your internet also slow?",
				},
			},
			TopicOneTimeCode: {
				Name: "one-time-code",
				Sentences: []string{
					"I did not receive any 6 digit code. From which number will it come?",
					"The message came but it is in different language. What does it say?",
					"Wait, the timer ran out. Send the code again.",
					"Is the code 4566 or 4576? My screen is blurry.",
					"I deleted the message by mistake. Can you resend it?",
					"My son told me not to share codes. Why do you need it?",
					"Phone battery died, just restarted. Send once more please.",
					"Why is the code coming from a personal number? Strange no?",
					"It says 'Do not share with anyone'. Are you anyone?",
				},
			},
			TopicAmount: {
				Name: "amount",
				Sentences: []string{
					"How much do I have to send exactly? Write the number.",
					"Is there any charge on top of the amount? I only have pension.",
					"Can I pay half today and half next week? Money is tight.",
					"The app says daily limit 10000 only. What do I do for more?",
					"Why is the fee so big? Yesterday it was different you said.",
					"Let me count my balance first, one minute. How much again?",
					"My daughter handles big payments. What amount do I tell her?",
					"Is it rupees or dollars? I got confused by the symbol.",
					"If I pay, when do I get the refund back? And how much?",
				},
			},
			TopicIdentityVerification: {
				Name: "identity-verification",
				Sentences: []string{
					"Please do not block my account sir. I am trying my best.",
					"Will police come to my house? I am an old man, have mercy.",
					"Why are you shouting in messages? Don't be angry.",
					"Give me 5 minutes, I am having a panic attack.",
					"Is this legal? I am worried. Which office are you from?",
					"My heart rate is going up. Can we do this tomorrow please?",
					"I promise to pay, just wait. What is your badge number sir?",
					"Which documents do you need? Aadhaar is with my son.",
					"How do I know you are really from the bank? Prove it please.",
				},
			},
		},
	}
}
